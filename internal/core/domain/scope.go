package domain

// RequestScope is the per-request view of where the application is mounted
// and how the client reached it. It is owned exclusively by the request
// pipeline for the duration of one request and mutated exactly once, by the
// rewriter, before routing.
//
// Invariant: ConsumedPrefix + RemainingPath reconstructs the full path the
// client requested; the mount prefix appears in it exactly once.
type RequestScope struct {
	// Headers as received from the transport layer.
	Headers Headers

	// ConsumedPrefix is the portion of the URL path already claimed as the
	// application's mount point ("script root"). Empty when the app is
	// mounted at /.
	ConsumedPrefix string

	// RemainingPath is the portion of the URL path still to be matched by
	// the router.
	RemainingPath string

	// Scheme is "http" or "https" as the client used it.
	Scheme string

	// Host is the Host value used to build absolute URLs.
	Host string
}

// FullPath reassembles the externally visible request path
func (s *RequestScope) FullPath() string {
	return s.ConsumedPrefix + s.RemainingPath
}

// Clone returns an independent copy of the scope
func (s *RequestScope) Clone() *RequestScope {
	clone := *s
	clone.Headers = s.Headers.Clone()
	return &clone
}
