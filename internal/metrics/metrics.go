package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	metrics "github.com/soulteary/metrics-kit"
)

var (
	// Registry is the Prometheus registry for herald-pow metrics
	Registry *metrics.Registry

	// ChallengeTotal counts issued challenges by adapter (json or html)
	ChallengeTotal *prometheus.CounterVec

	// VerifyTotal counts verify attempts by result and reason
	VerifyTotal *prometheus.CounterVec

	// TokenCheckTotal counts token checks by result
	TokenCheckTotal *prometheus.CounterVec
)

func init() {
	Init()
}

// Init initializes herald-pow metrics
func Init() {
	Registry = metrics.NewRegistry("herald_pow")
	ChallengeTotal = Registry.Counter("challenge_total").
		Help("Total PoW challenges issued").
		Labels("adapter").
		BuildVec()
	VerifyTotal = Registry.Counter("verify_total").
		Help("Total PoW verify attempts").
		Labels("result", "reason").
		BuildVec()
	TokenCheckTotal = Registry.Counter("token_check_total").
		Help("Total token checks by result").
		Labels("result").
		BuildVec()
}

// RecordChallenge records an issued challenge (adapter: "json" or "html")
func RecordChallenge(adapter string) {
	if ChallengeTotal != nil {
		ChallengeTotal.WithLabelValues(adapter).Inc()
	}
}

// RecordVerify records a verify attempt (result: "success" or "failure", reason: e.g. "invalid_solution", "not_found")
func RecordVerify(result, reason string) {
	if VerifyTotal != nil {
		VerifyTotal.WithLabelValues(result, reason).Inc()
	}
}

// RecordTokenCheck records a token check (result: "valid" or "invalid")
func RecordTokenCheck(result string) {
	if TokenCheckTotal != nil {
		TokenCheckTotal.WithLabelValues(result).Inc()
	}
}
