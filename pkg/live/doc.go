// Package live serves a vtree application over HTTP and WebSocket.
//
// A page request renders the application on the server and opens a
// pending session. The page script then connects to the live endpoint,
// the session renders its view into a server-side mirror of the
// client container, and every change after that is streamed as
// protocol patch frames. Client events arrive as event frames and are
// dispatched to the handlers bound during rendering.
//
//	srv := live.New(func(s *live.Session) live.View {
//		count := 0
//		return func() *vdom.VNode {
//			return vdom.Div(
//				vdom.Button(vdom.OnClick(func() { count++ }), "+"),
//				vdom.Span(strconv.Itoa(count)),
//			)
//		}
//	}, live.Config{Address: ":8080"})
//	err := srv.ListenAndServe(ctx)
//
// Each session owns its engine and document. Handlers run with the
// session locked, so application state reached only from handlers and
// Session.Do needs no further synchronization.
package live
