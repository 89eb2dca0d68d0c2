// Package api is the client's HTTP layer for the Fyndr REST backend.
//
// Client.Request and Client.RequestForm perform one request/response cycle:
// they attach a bearer token, classify the response, and on an HTTP 401
// recover once through the token manager before retrying the same request.
// Failures are returned as *NetworkError, *ResponseFormatError, *HTTPError or
// *AuthRecoveryError.
package api
