// Package gateway is the HTTP client for the job portal's API Gateway
// functions. Each endpoint is configured by its full URL; list endpoints
// return their whole result set in one response.
package gateway
