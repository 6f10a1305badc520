package httpclient

import "encoding/json"

// MaxBodyBytes caps how much of a response body Execute will read before
// giving up, protecting callers from an unbounded or misbehaving server.
const MaxBodyBytes = 10 * 1024 * 1024 // 10 MiB

// Response is the value type returned by Client.Execute.
type Response struct {
	Status int
	Header *Header
	Body   []byte
}

// Success reports whether Status is in [200, 300).
func (r *Response) Success() bool { return r.Status >= 200 && r.Status < 300 }

// ParseJSON unmarshals the response body into v.
func (r *Response) ParseJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}
