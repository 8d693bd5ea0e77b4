// Package sessiontransport moves session identifiers between HTTP
// requests and the session manager.
//
// The Cookie transport stores the opaque session id as a cookie value
// and resolves it back into a detached session on each request,
// transparently starting a fresh session when the id is missing,
// unknown, or expired:
//
//	transport := sessiontransport.NewCookie(manager, "__session", 30*time.Minute)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		sess, err := transport.Load(r)
//		if err != nil {
//			http.Error(w, "session error", http.StatusInternalServerError)
//			return
//		}
//		sess.Set("theme", "dark")
//		if err := transport.Store(w, sess); err != nil {
//			log.Printf("failed to store session: %v", err)
//		}
//	}
//
// Most applications mount the middleware package instead of calling the
// transport directly.
package sessiontransport
