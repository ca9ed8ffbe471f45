// Package probe implements a cheap pre-flight reachability check for the
// mail submission endpoint.
//
// Probe resolves the host and opens (then immediately closes) a TCP
// connection, all within one timeout. It is purely advisory and persists
// nothing. The delivery orchestrator uses a negative result to skip a doomed
// transport attempt and go straight to the fallback journal.
//
// Resolver and Dialer are injected so failures can be simulated with test
// doubles instead of patching the network stack:
//
//	p := probe.New(probe.WithResolver(fakeResolver{err: dnsErr}))
//	ok := p.Probe(ctx, "smtp.gmail.com", 587, 5*time.Second) // false
package probe
