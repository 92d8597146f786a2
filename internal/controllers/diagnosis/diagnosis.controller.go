package diagnosisController

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/ai"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/repositories"
)

// ErrInvalidRequest marks validation failures so handlers can answer 400
// instead of 500.
var ErrInvalidRequest = errors.New("invalid diagnosis request")

type DiagnosisController struct {
	aiService   *ai.Service
	historyRepo repositories.HistoryRepository
	log         logger.Logger
}

func New(aiService *ai.Service, historyRepo repositories.HistoryRepository) *DiagnosisController {
	return &DiagnosisController{
		aiService:   aiService,
		historyRepo: historyRepo,
		log:         logger.New("DiagnosisController"),
	}
}

// Validate enforces the minimal request contract: a truck make or model
// and at least one non-empty symptom.
func Validate(req *DiagnosisRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty body", ErrInvalidRequest)
	}
	if req.Truck.IsZero() || (req.Truck.Make == "" && req.Truck.Model == "") {
		return fmt.Errorf("%w: truck is required", ErrInvalidRequest)
	}

	hasSymptom := false
	for _, s := range req.Symptoms {
		if strings.TrimSpace(s) != "" {
			hasSymptom = true
			break
		}
	}
	if !hasSymptom {
		return fmt.Errorf("%w: at least one symptom is required", ErrInvalidRequest)
	}

	if req.Urgency != "" && !req.Urgency.Valid() {
		return fmt.Errorf("%w: urgency must be low, medium, or high", ErrInvalidRequest)
	}

	return nil
}

func (c *DiagnosisController) Diagnose(
	ctx context.Context,
	req *DiagnosisRequest,
) (*Diagnosis, []ai.Attempt, error) {
	log := c.log.Function("Diagnose")

	if err := Validate(req); err != nil {
		return nil, nil, err
	}

	diagnosis, attempts, err := c.aiService.Diagnose(ctx, req)
	if err != nil {
		return nil, attempts, log.Err("diagnosis failed", err,
			"make", req.Truck.Make, "model", req.Truck.Model)
	}

	return diagnosis, attempts, nil
}

// SaveSession persists a finished diagnosis to history on explicit client
// request.
func (c *DiagnosisController) SaveSession(
	ctx context.Context,
	req *DiagnosisRequest,
	diagnosis *Diagnosis,
) (*DiagnosisSession, error) {
	log := c.log.Function("SaveSession")

	if err := Validate(req); err != nil {
		return nil, err
	}
	if diagnosis == nil || diagnosis.Result == nil {
		return nil, fmt.Errorf("%w: result is required", ErrInvalidRequest)
	}

	resultJSON, err := json.Marshal(diagnosis.Result)
	if err != nil {
		return nil, log.Err("failed to serialize result", err)
	}

	session := &DiagnosisSession{
		TruckMake:      req.Truck.Make,
		TruckModel:     req.Truck.Model,
		TruckYear:      req.Truck.Year,
		TruckEngine:    req.Truck.Engine,
		Symptoms:       strings.Join(req.Symptoms, "; "),
		AdditionalInfo: req.AdditionalInfo,
		Urgency:        string(req.Urgency),
		ResultJSON:     string(resultJSON),
		Provider:       diagnosis.Provider,
		FallbackUsed:   diagnosis.FallbackUsed,
	}

	if err := c.historyRepo.SaveSession(ctx, session); err != nil {
		return nil, log.Err("failed to save session", err)
	}

	return session, nil
}

func (c *DiagnosisController) GetSessions(ctx context.Context, limit int) ([]DiagnosisSession, error) {
	sessions, err := c.historyRepo.GetSessions(ctx, limit)
	if err != nil {
		return nil, c.log.Function("GetSessions").Err("failed to load sessions", err)
	}
	return sessions, nil
}

func (c *DiagnosisController) GetSessionByID(ctx context.Context, id string) (*DiagnosisSession, error) {
	session, err := c.historyRepo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, c.log.Function("GetSessionByID").Err("failed to load session", err, "id", id)
	}
	return session, nil
}

func (c *DiagnosisController) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}
	return c.historyRepo.DeleteSession(ctx, id)
}
