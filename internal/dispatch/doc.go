// Package dispatch turns one inbound webhook request into one script run.
//
// The first path segment names the script and the remaining segments become
// its positional arguments. The script is found through a ScriptResolver, its
// environment is built from the request parameters by package envmap, and it
// runs in an execution.Session.
//
// Modes:
//   - Foreground (default): wait for exit within what is left of the request
//     timeout, then always interrupt, terminate and reap the process
//   - Background (a "background" query or form parameter): wait briefly to
//     catch immediate failures, detach, respond 202
//
// Responses:
//   - No path → 200 welcome
//   - Unknown script → 404
//   - Exit 0 → 200
//   - Non-zero exit, signal, timeout or spawn failure → 500
//   - Background → 202
//
// A missing scripts directory and an unparseable JSON body are returned as
// errors (ErrScriptsDirMissing, ErrMalformedBody) for the transport to turn
// into a server error.
package dispatch
