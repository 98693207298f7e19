// Package server exposes the plate redaction pipeline over HTTP.
//
// The API is asynchronous: POST /license-plate/process validates the upload,
// registers a job, and returns 202 with a process id immediately. Clients
// poll GET /license-plate/status/:id until the job reaches COMPLETED or
// ERROR, then DELETE /license-plate/clear/:id to release the cached result.
//
// All responses are JSON. Upload validation failures return 400 with a
// message; unknown process ids return 404.
package server
