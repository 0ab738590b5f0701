// Package bwire is a small embeddable HTTP/1.x server that answers exactly one request per connection.
//
// # Overview
//
// A [Server] reads a single request from each accepted connection, runs it through an ordered chain of
// handlers and writes the response back with "Connection: close". There is no keep-alive, no chunked
// transfer encoding and no TLS; the point is a server whose complete behavior fits in one read, one dispatch
// and one write.
//
// A minimal example:
//
//	rt := bwire.NewRouter()
//	rt.Get("/items/:id", func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
//	    id, _ := r.PathParam("id")
//	    item, err := db.GetItem(id)
//	    if err != nil {
//	        return nil, bwire.NewError(bwire.CodeNotFound, err)
//	    }
//	    return bwire.NewResponse(bwire.StatusOK).ContentType("application/json").Bytes(item), nil
//	}, "get-item")
//
//	srv := bwire.NewServer(bwire.WithLogger(logger)).Use(rt)
//	err := srv.Serve(ctx, ln)
//
// # Handlers
//
// A [Handler] returns a response, an error, or neither. Returning neither ([Pass]) hands the request to the
// next handler in the chain, so filters can be installed ahead of the routes:
//
//	srv.Use(bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
//	    if !r.HasHeader("Authorization") {
//	        return bwire.NewResponse(bwire.StatusUnauthorized).Text("login first"), nil
//	    }
//	    return bwire.Pass()
//	}), rt)
//
// When every handler passes the server answers 404.
//
// # Error Handling
//
// Errors are resolved at the dispatch boundary ([Server.Dispatch]):
//
//   - [*Error] (created with [NewError]) with a 4xx code: answered with that code and its status text
//   - Any other error, a 5xx [*Error], or a panic: logged and answered with 500
//
// Error details never end up in the response body. Requests that cannot be parsed never reach the handlers;
// they are answered directly with 400, 405, 413, 414, 431 or 505.
//
// # Routing
//
// [Router] matches path templates made of literal segments, ":name" parameters and a final "*" wildcard.
// Literals match case-insensitively, captured values keep their case, and one trailing slash of the request
// path is ignored. Entries are tried in registration order and the first match wins, so an earlier "/a/*"
// shadows a later "/a/b". Routes can be named and reversed:
//
//	rt.Get("/users/:id", getUser, "get-user")
//	url, err := rt.Reverse("get-user", "123")  // returns "/users/123"
//
// # Responses
//
// [Response] is built with chained setters. Once it is handed to the writer it is frozen and every further
// change panics. A streamed body is owned by its response and closed exactly once, also when it is not sent
// because the request was HEAD or the status is 204.
//
// # Static Files
//
// [ServeFile] answers with a file and supports conditional requests (If-None-Match) and single byte ranges
// (Range, If-Range). [FileServer] serves a directory and is meant to be mounted:
//
//	rt.Mount("/static", bwire.FileServer("./public"))
package bwire
