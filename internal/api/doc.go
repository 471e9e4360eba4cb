// Package api serves the current aggregated prefix list over HTTP.
package api
