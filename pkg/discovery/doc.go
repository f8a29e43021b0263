// Package discovery routes network-service discovery reports to the
// components that handle them.
//
// A scanner periodically probes the network and reports found services by
// name plus metadata. The Dispatcher resolves each report against a static
// service registry and either fires a platform_discovered event directly or
// loads a platform dynamically under its owning component. Components that
// want to react to specific services subscribe with Listen.
//
// # Event shapes
//
// Both dispatch paths share one event channel, EventPlatformDiscovered.
// The payload always carries AttrService and optionally AttrDiscovered:
//
//	{service: "sonos", discovered: {host: "10.0.0.5"}}
//
// Platform loads use a derived service name and inject the platform under
// the load_platform key:
//
//	{service: "load_platform.media_player",
//	 discovered: {host: "10.0.0.5", load_platform: "sonos"}}
//
// # Dynamic platform loading
//
// LoadPlatform lets any caller request loading of a platform its component
// does not statically know about. The owning component only needs a single
// listener on its load_platform.<component> service; new platforms can then
// feed it without compile-time coupling.
package discovery
