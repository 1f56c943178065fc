package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"voice-calculator/internal/expression"
	"voice-calculator/internal/handlers"
	"voice-calculator/internal/observability"
	"voice-calculator/internal/session"
	"voice-calculator/internal/speech"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const (
	maxBodyBytes = 64 << 10
	maxKeys      = 512
)

// Handler serves the calculator endpoints. Its settings can be swapped while
// requests are in flight.
type Handler struct {
	settings atomic.Pointer[Settings]
}

func NewHandler(s Settings) *Handler {
	h := &Handler{}
	h.SetSettings(s)
	return h
}

// SetSettings replaces the defaults used by subsequent requests.
func (h *Handler) SetSettings(s Settings) {
	h.settings.Store(&s)
}

func (h *Handler) Settings() Settings {
	return *h.settings.Load()
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. A failed evaluation is answered
// with 422 and the error marker as display.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	const opName = "evaluate"
	ctx, span, logger := startOperation(r, opName)
	defer span.End()

	var req EvaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		badRequest(w, r, span, logger, opName, "invalid request body", err)
		return
	}

	settings := h.Settings()
	unit, err := angleUnit(req.AngleUnit, settings)
	if err != nil {
		badRequest(w, r, span, logger, opName, "invalid angle unit", err)
		return
	}
	opts := []expression.Option{expression.WithAngleUnit(unit)}
	if req.Ans != "" {
		ans, err := expression.ParseNumber(req.Ans)
		if err != nil {
			badRequest(w, r, span, logger, opName, "invalid ans", err)
			return
		}
		opts = append(opts, expression.SetVar("ans", ans))
	}

	span.SetAttributes(
		attribute.String("calculator.expression", req.Expression),
		attribute.String("calculator.angle_unit", unit.String()),
	)

	start := time.Now()
	res := expression.Evaluate(req.Expression, opts...)
	elapsed := millis(time.Since(start))

	outcome := outcomeOf(res)
	recordOperation(ctx, opName, outcome, elapsed)
	resp := evaluateResponse(res)

	if res.Err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "evaluation failed", res.Err)
		handlers.WriteJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	if res.OK() {
		recordResult(ctx, opName, res.Value)
	}

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.String("display", resp.Display),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", resp.Display))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.String("normalized", res.Normalized),
		zap.String("display", resp.Display),
		zap.String("outcome", outcome),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// Translate handles POST /calculator/translate.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	const opName = "translate"
	ctx, span, logger := startOperation(r, opName)
	defer span.End()

	var req TranslateRequest
	if err := decodeBody(w, r, &req); err != nil {
		badRequest(w, r, span, logger, opName, "invalid request body", err)
		return
	}
	unit, err := angleUnit(req.AngleUnit, h.Settings())
	if err != nil {
		badRequest(w, r, span, logger, opName, "invalid angle unit", err)
		return
	}

	start := time.Now()
	expr := speech.Translate(req.Transcript)
	resp := TranslateResponse{Transcript: req.Transcript, Expression: expr}
	outcome := outcomeNumber
	if expr == "" {
		outcome = outcomeEmpty
	}

	// Evaluation runs in its own child span so translation and arithmetic
	// show up separately in a trace.
	if req.Evaluate {
		_, evalSpan := tracer.Start(ctx, "calculator.translate.evaluate",
			trace.WithAttributes(attribute.String("calculator.expression", expr)),
		)
		res := expression.Evaluate(expr, expression.WithAngleUnit(unit))
		er := evaluateResponse(res)
		resp.Result = &er
		outcome = outcomeOf(res)
		if res.Err != nil {
			evalSpan.RecordError(res.Err)
			evalSpan.SetStatus(codes.Error, "evaluation failed")
		} else {
			evalSpan.SetStatus(codes.Ok, "")
			if res.OK() {
				recordResult(ctx, opName, res.Value)
			}
		}
		evalSpan.End()
	}
	elapsed := millis(time.Since(start))
	recordOperation(ctx, opName, outcome, elapsed)

	span.SetAttributes(
		attribute.String("speech.transcript", req.Transcript),
		attribute.String("calculator.expression", expr),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("transcript translated",
		zap.String("transcript", req.Transcript),
		zap.String("expression", expr),
		zap.String("outcome", outcome),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// Keypress handles POST /calculator/keypress: it restores the session sent by
// the client, applies the transcript and keys in order, and returns the new
// session.
func (h *Handler) Keypress(w http.ResponseWriter, r *http.Request) {
	const opName = "keypress"
	ctx, span, logger := startOperation(r, opName)
	defer span.End()

	var req KeypressRequest
	if err := decodeBody(w, r, &req); err != nil {
		badRequest(w, r, span, logger, opName, "invalid request body", err)
		return
	}
	if len(req.Keys) == 0 && req.Transcript == "" {
		badRequest(w, r, span, logger, opName, "no keys or transcript", errors.New("empty keypress request"))
		return
	}
	if len(req.Keys) > maxKeys {
		badRequest(w, r, span, logger, opName, "too many keys", fmt.Errorf("%d keys, at most %d", len(req.Keys), maxKeys))
		return
	}

	settings := h.Settings()
	unit, err := angleUnit(req.AngleUnit, settings)
	if err != nil {
		badRequest(w, r, span, logger, opName, "invalid angle unit", err)
		return
	}
	policy := settings.ResultPolicy
	if req.ResultPolicy != "" {
		if policy, err = session.ParseResultPolicy(req.ResultPolicy); err != nil {
			badRequest(w, r, span, logger, opName, "invalid result policy", err)
			return
		}
	}

	opts := []session.Option{
		session.WithAngleUnit(unit),
		session.WithResultPolicy(policy),
		session.WithLogger(logger),
	}
	sess := session.New(opts...)
	if req.Session != nil {
		if sess, err = session.Restore(*req.Session, opts...); err != nil {
			badRequest(w, r, span, logger, opName, "invalid session", err)
			return
		}
	}

	start := time.Now()
	if req.Transcript != "" {
		expr := sess.ApplyTranscript(req.Transcript)
		span.AddEvent("transcript.applied", trace.WithAttributes(
			attribute.String("speech.transcript", req.Transcript),
			attribute.String("calculator.expression", expr),
		))
	}
	for _, k := range req.Keys {
		sess.Press(k)
	}
	elapsed := millis(time.Since(start))

	state := sess.State()
	outcome := state.String()
	recordOperation(ctx, opName, outcome, elapsed)
	if state == session.ErrorShown {
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))
	}

	span.SetAttributes(
		attribute.Int("calculator.keys", len(req.Keys)),
		attribute.String("calculator.state", outcome),
		attribute.String("calculator.expression", sess.Expression()),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("keys applied",
		zap.Int("keys", len(req.Keys)),
		zap.String("state", outcome),
		zap.String("display", sess.Announcement()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)

	recent := sess.Recent(settings.RecentHistory)
	resp := KeypressResponse{
		Session: sess.Snapshot(),
		Display: sess.Announcement(),
		Recent:  make([]string, len(recent)),
	}
	for i, e := range recent {
		resp.Recent[i] = e.String()
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// startOperation opens the operation's child span and returns a logger
// correlated with it.
func startOperation(r *http.Request, opName string) (ctx context.Context, span trace.Span, logger *zap.Logger) {
	ctx, span = tracer.Start(r.Context(), "calculator."+opName,
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

func badRequest(w http.ResponseWriter, r *http.Request, span trace.Span, logger *zap.Logger, opName, msg string, err error) {
	recordOperation(r.Context(), opName, outcomeError, 0)
	observability.RecordError(r.Context(), span, logger, errorCounter, opName, msg, err)
	handlers.WriteError(w, http.StatusBadRequest, msg)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func angleUnit(s string, settings Settings) (expression.AngleUnit, error) {
	if s == "" {
		return settings.AngleUnit, nil
	}
	return expression.ParseAngleUnit(s)
}

func evaluateResponse(res expression.Result) EvaluateResponse {
	resp := EvaluateResponse{
		Expression: res.Expression,
		Normalized: res.Normalized,
		Display:    res.Display(),
	}
	if res.OK() {
		resp.Exact = res.Value.IsInt()
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return resp
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
