package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/engine"
	"github.com/vortex-fintech/go-phonemask/field"
	"github.com/vortex-fintech/go-phonemask/field/prommetrics"
	"github.com/vortex-fintech/go-phonemask/foundation/errors"
	"github.com/vortex-fintech/go-phonemask/foundation/logger"
	"github.com/vortex-fintech/go-phonemask/foundation/validator"
	"github.com/vortex-fintech/go-phonemask/metrics"
	"github.com/vortex-fintech/go-phonemask/runtime/shutdown"
)

const maxBodyBytes = 64 << 10

// formatRequest picks the country from E164, CountryCode, CallingCode or the
// configured default, in that order.
type formatRequest struct {
	CountryCode string `json:"country_code" validate:"omitempty,iso2"`
	CallingCode string `json:"calling_code" validate:"omitempty,calling_code"`
	Value       string `json:"value" validate:"max=64"`
	E164        string `json:"e164" validate:"max=32"`
}

type replayResponse struct {
	Notifications []field.Notification `json:"notifications"`
	State         stateView            `json:"state"`
}

type server struct {
	engine         *engine.Engine
	fields         *field.Reconciler
	log            logger.LoggerInterface
	defaultCountry string
	requests       *prometheus.CounterVec
}

// newServer wires the playground routes, /metrics and /health onto one mux.
func newServer(a *app, reg *prometheus.Registry) (http.Handler, error) {
	obs, err := prommetrics.New(reg, "phonemask", "field")
	if err != nil {
		return nil, err
	}

	s := &server{
		engine:         a.engine,
		log:            a.log,
		defaultCountry: a.cfg.DefaultCountry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phonemask", Subsystem: "http",
			Name: "requests_total", Help: "Playground requests by route and status code",
		}, []string{"route", "code"}),
	}
	s.fields = field.NewReconciler(a.engine,
		field.WithLogger(a.log),
		field.WithObserver(obs),
		field.WithDefaultCountry(a.cfg.DefaultCountry),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/format", s.handleFormat)
	mux.HandleFunc("GET /v1/countries", s.handleCountries)
	mux.HandleFunc("POST /v1/replay", s.handleReplay)

	h, _ := metrics.New(metrics.Options{
		Registry: reg,
		Mux:      mux,
		Logger:   a.log,
		Register: func(r prometheus.Registerer) error { return r.Register(s.requests) },
		Health:   s.health,
	})
	return h, nil
}

func (s *server) handleFormat(w http.ResponseWriter, r *http.Request) {
	const route = "format"

	var req formatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, route, err)
		return
	}
	if err := validator.ValidateErr(req); err != nil {
		s.writeError(w, route, err)
		return
	}

	if req.E164 != "" {
		v, c, err := s.engine.ParseE164(req.E164)
		if err != nil {
			s.writeError(w, route, err)
			return
		}
		s.writeJSON(w, route, http.StatusOK, newFormatResult(s.engine, v, c))
		return
	}

	var (
		c   country.Entry
		err error
	)
	switch {
	case req.CountryCode != "":
		c, err = s.engine.SelectCountry(req.CountryCode)
	case req.CallingCode != "":
		c, err = s.engine.ResolveCountryFromCallingCode(req.CallingCode, s.defaultCountry)
	default:
		c, err = s.engine.SelectCountry(s.defaultCountry)
	}
	if err != nil {
		s.writeError(w, route, err)
		return
	}

	s.writeJSON(w, route, http.StatusOK, newFormatResult(s.engine, s.engine.NewValue(req.Value, c), c))
}

func (s *server) handleCountries(w http.ResponseWriter, r *http.Request) {
	const route = "countries"

	table := s.engine.Table()
	entries := table.Entries()
	if cc := r.URL.Query().Get("calling_code"); cc != "" {
		entries = table.ByCallingCode(cc)
		if len(entries) == 0 {
			s.writeError(w, route, &country.NotFoundError{CallingCode: cc})
			return
		}
	}
	s.writeJSON(w, route, http.StatusOK, entries)
}

func (s *server) handleReplay(w http.ResponseWriter, r *http.Request) {
	const route = "replay"

	sc, err := decodeScript(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, route, err)
		return
	}

	resp := replayResponse{Notifications: []field.Notification{}}
	final, err := sc.run(s.fields, func(n field.Notification) {
		resp.Notifications = append(resp.Notifications, n)
	})
	if err != nil {
		s.writeError(w, route, err)
		return
	}
	resp.State = newStateView(final)
	s.writeJSON(w, route, http.StatusOK, resp)
}

func (s *server) health(context.Context, *http.Request) error {
	if s.engine.Table().Len() == 0 {
		return stderrors.New("country table is empty")
	}
	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if stderrors.As(err, &mbe) {
			return errors.InvalidArgument().WithReason("body_too_large")
		}
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		if stderrors.As(err, &syn) || stderrors.As(err, &typ) {
			return err
		}
		return errors.InvalidArgument().WithReason("malformed_body").WithMessage(err.Error())
	}
	return nil
}

func (s *server) writeJSON(w http.ResponseWriter, route string, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warnw("write response failed", "route", route, "err", err)
	}
	s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (s *server) writeError(w http.ResponseWriter, route string, err error) {
	resp := errors.ToErrorResponse(err)
	status := errors.HTTPStatus(resp.Code)
	if status >= http.StatusInternalServerError {
		s.log.Errorw("request failed", "route", route, "err", err)
	} else {
		s.log.Debugw("request rejected", "route", route, "reason", string(resp.Reason))
	}
	resp.ToHTTP(w)
	s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP playground with /metrics and /health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := prometheus.NewRegistry()
			h, err := newServer(a, reg)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           h,
				ReadHeaderTimeout: 5 * time.Second,
			}
			m := shutdown.New(shutdown.Config{
				ShutdownTimeout: a.cfg.ShutdownTimeout,
				HandleSignals:   true,
				Logger:          a.log,
			})
			m.Add(&shutdown.HTTP{Srv: srv, NameStr: "http-playground"})

			a.log.Infow("playground listening", "addr", a.cfg.HTTPAddr, "countries", a.engine.Table().Len())
			return m.Run(cmd.Context())
		},
	}

	cmd.Flags().String("http-addr", "", "listen address (default 127.0.0.1:8080)")
	cmd.Flags().Duration("shutdown-timeout", 0, "graceful shutdown timeout (default 10s)")
	return cmd
}
