package command

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-engine/internal/domain"
)

// envelope is the wire shape of a command: a type tag plus a payload
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// submitOrderPayload is the wire shape of a SUBMIT_ORDER payload
type submitOrderPayload struct {
	Symbol     string           `json:"symbol"`
	Side       domain.OrderSide `json:"side"`
	Quantity   int64            `json:"quantity"`
	Type       domain.OrderType `json:"type"`
	LimitPrice *decimal.Decimal `json:"limitPrice,omitempty"`
}

// runAllocationPayload is the wire shape of a RUN_ALLOCATION payload
type runAllocationPayload struct {
	Objective   string             `json:"objective"`
	RiskTarget  float64            `json:"riskTarget"`
	Constraints domain.Constraints `json:"constraints"`
}

// runMLModelPayload is the wire shape of a RUN_ML_MODEL payload
type runMLModelPayload struct {
	ModelID string         `json:"modelId"`
	Output  map[string]any `json:"output"`
}

// setSchemePayload is the wire shape of a SET_SCHEME payload
type setSchemePayload struct {
	SchemeID int `json:"schemeId"`
}

// UnmarshalCommand decodes one wire command into its tagged variant.
// Decoding errors surface to the caller; they never reach the reducer,
// which by contract only sees well-formed variants.
func UnmarshalCommand(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode command envelope: %w", err)
	}

	switch env.Type {
	case KindSetState:
		var snapshot domain.PortfolioState
		if err := json.Unmarshal(env.Payload, &snapshot); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return SetState{Snapshot: snapshot}, nil

	case KindPatchState:
		var patch domain.StatePatch
		if err := json.Unmarshal(env.Payload, &patch); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return PatchState{Patch: patch}, nil

	case KindSetScheme:
		var payload setSchemePayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return SetScheme{SchemeID: payload.SchemeID}, nil

	case KindRunAllocation:
		var payload runAllocationPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return RunAllocation{
			Objective:   payload.Objective,
			RiskTarget:  payload.RiskTarget,
			Constraints: payload.Constraints,
		}, nil

	case KindSubmitOrder:
		var payload submitOrderPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return SubmitOrder{
			Symbol:     payload.Symbol,
			Side:       payload.Side,
			Quantity:   payload.Quantity,
			Type:       payload.Type,
			LimitPrice: payload.LimitPrice,
		}, nil

	case KindRebalance:
		return Rebalance{}, nil

	case KindRunMLModel:
		var payload runMLModelPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return RunMLModel{ModelID: payload.ModelID, Output: payload.Output}, nil

	case KindApplySuggestedAllocation:
		return ApplySuggestedAllocation{}, nil

	default:
		return nil, fmt.Errorf("unknown command type %q", env.Type)
	}
}
