// Package http implements the HTTP handlers of the factorframe API. Handlers
// stay thin: they decode JSON contracts, call a service and render the
// result. Every failure goes through errors.ErrorHandler and is returned as
// RFC 7807 problem details:
//
//	{
//	    "type": "/errors/transform/insufficient-data",
//	    "title": "Insufficient Data",
//	    "status": 422,
//	    "detail": "step 0 (zscore): ...",
//	    "instance": "/api/v1/transforms/zscore"
//	}
//
// Routes:
//
//	GET  /api/health
//	GET  /api/version
//	GET  /api/v1/operations
//	POST /api/v1/transforms/{op}
//	POST /api/v1/pipelines/run
//	POST /api/v1/mask
//	POST /api/v1/partition
package http
