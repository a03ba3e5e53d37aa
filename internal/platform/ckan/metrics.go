package ckan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for actionsTotal.
const (
	outcomeSuccess        = "success"
	outcomeActionError    = "action_error"
	outcomeTransportError = "transport_error"
)

var (
	actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "jsonapi_ckan_action_duration_seconds",
		Help: "Duration of CKAN action calls.",
	}, []string{"action"})
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsonapi_ckan_actions_total",
		Help: "Number of CKAN action calls by outcome.",
	}, []string{"action", "outcome"})
)
