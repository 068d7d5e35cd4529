package models

import "time"

// Phase tags which variant a RequestState holds.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

// RequestState is exactly one of Idle, Loading, Success or Failure.
// Values are never mutated after construction; transitions build a new one.
type RequestState struct {
	Phase Phase
	// Seq is the submit sequence number that produced this state (0 for Idle).
	Seq       uint64
	EnteredAt time.Time

	// Success payload.
	Predictions PredictionResponse
	Analysis    *AnalysisResult

	// Failure payload.
	Message string
}

func IdleState() RequestState {
	return RequestState{Phase: PhaseIdle, EnteredAt: time.Now()}
}

func LoadingState(seq uint64) RequestState {
	return RequestState{Phase: PhaseLoading, Seq: seq, EnteredAt: time.Now()}
}

func SuccessState(seq uint64, p Prediction) RequestState {
	return RequestState{
		Phase:       PhaseSuccess,
		Seq:         seq,
		EnteredAt:   time.Now(),
		Predictions: p.Points,
		Analysis:    p.Analysis,
	}
}

func FailureState(seq uint64, msg string) RequestState {
	return RequestState{Phase: PhaseFailure, Seq: seq, EnteredAt: time.Now(), Message: msg}
}

func (s RequestState) IsIdle() bool    { return s.Phase == PhaseIdle }
func (s RequestState) IsLoading() bool { return s.Phase == PhaseLoading }
func (s RequestState) IsSuccess() bool { return s.Phase == PhaseSuccess }
func (s RequestState) IsFailure() bool { return s.Phase == PhaseFailure }
