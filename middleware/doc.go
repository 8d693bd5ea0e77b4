// Package middleware provides net/http middleware for the session
// subsystem. The middleware signature, func(http.Handler) http.Handler,
// composes with chi and any other stdlib-compatible router.
//
//	r := chi.NewRouter()
//	r.Use(middleware.Session(transport))
//
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//		sess, ok := middleware.GetSession(r.Context())
//		if !ok {
//			http.Error(w, "no session", http.StatusInternalServerError)
//			return
//		}
//		sess.Set("last_path", r.URL.Path)
//	})
package middleware
