package service

import "github.com/prometheus/client_golang/prometheus"

var (
	roundsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crash_rounds_started_total",
		Help: "Rounds created with a committed crash point",
	})
	roundsEnded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crash_rounds_ended_total",
		Help: "Rounds settled and marked ended",
	})
	betsPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crash_bets_placed_total",
		Help: "Bets accepted on live rounds",
	})
	cashOuts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crash_cashouts_total",
		Help: "Plays cashed out before the crash, manual and auto",
	})
)

func init() {
	prometheus.MustRegister(roundsStarted)
	prometheus.MustRegister(roundsEnded)
	prometheus.MustRegister(betsPlaced)
	prometheus.MustRegister(cashOuts)
}
