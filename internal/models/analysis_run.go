package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisRun is a persisted record of one full credit analysis:
// the parameter set that produced it plus the aggregate outputs.
// Full per-scenario detail is stored as JSONB alongside.
type AnalysisRun struct {
	ID              uuid.UUID `json:"id"`
	CompanyID       uuid.UUID `json:"company_id"`
	ParameterHash   string    `json:"parameter_hash"`
	Parameters      []byte    `json:"parameters"`
	ResilienceScore float64   `json:"resilience_score"`
	MinDSCR         float64   `json:"min_dscr"`
	MaxLeverage     float64   `json:"max_leverage"`
	TotalBreaches   int       `json:"total_breaches"`
	EnterpriseValue float64   `json:"enterprise_value"`
	EquityValue     float64   `json:"equity_value"`
	Scenarios       []byte    `json:"scenarios"`
	CreatedAt       time.Time `json:"created_at"`
}

// HashParameters produces a stable fingerprint for a parameter set,
// used for run deduplication and cache keys.
func HashParameters(params any) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
