package server

import (
	"io"
	"net/http"

	"github.com/clean-dependency-project/devserve/internal/headers"
)

// Responder serves files below a document root and applies the header
// policy to every response it writes, including error responses produced by
// the underlying file server.
type Responder struct {
	root   string
	policy *headers.Policy
	files  http.Handler
}

// NewResponder creates a Responder for root. Path resolution, index.html
// handling and not-found responses are left to http.FileServer.
func NewResponder(root string, policy *headers.Policy) *Responder {
	return &Responder{
		root:   root,
		policy: policy,
		files:  http.FileServer(http.Dir(root)),
	}
}

// Root returns the document root.
func (r *Responder) Root() string {
	return r.root
}

// ServeHTTP implements http.Handler.
func (r *Responder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	pw := &policyWriter{
		ResponseWriter: w,
		policy:         r.policy,
		path:           req.URL.Path,
	}
	r.files.ServeHTTP(pw, req)
}

// policyWriter applies the policy headers right before the status line goes
// out, so they win over anything the file server set.
type policyWriter struct {
	http.ResponseWriter
	policy      *headers.Policy
	path        string
	wroteHeader bool
}

func (w *policyWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.policy.Apply(w.ResponseWriter.Header(), w.path)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *policyWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// ReadFrom keeps the sendfile path of the underlying writer reachable.
func (w *policyWriter) ReadFrom(src io.Reader) (int64, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if rf, ok := w.ResponseWriter.(io.ReaderFrom); ok {
		return rf.ReadFrom(src)
	}
	return io.Copy(writerOnly{w.ResponseWriter}, src)
}

// writerOnly hides ReadFrom so io.Copy does not recurse.
type writerOnly struct {
	io.Writer
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *policyWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
