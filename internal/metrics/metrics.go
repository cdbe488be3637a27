// Package metrics содержит счётчики Prometheus для ключевых операций ядра.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClubsCreated считает успешно созданные клубы.
	ClubsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "club_organizer_clubs_created_total",
		Help: "Total number of clubs created.",
	})

	// ClubCreateRollbacks считает компенсирующие откаты при создании клуба.
	ClubCreateRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "club_organizer_club_create_rollbacks_total",
		Help: "Total number of compensating deletes during club creation.",
	}, []string{"outcome"})

	// InvitationsCreated считает созданные приглашения.
	InvitationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "club_organizer_invitations_created_total",
		Help: "Total number of club invitations created.",
	})

	// SessionUsageIncrements считает атомарные инкременты месячного счётчика сессий.
	SessionUsageIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "club_organizer_session_usage_increments_total",
		Help: "Total number of monthly session usage increments.",
	})
)
