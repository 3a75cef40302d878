package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ladder-analytics/internal/domain"
	"ladder-analytics/internal/domain/model"
)

const dateLayout = "2006-01-02"

// parseRange reads start/end query parameters. Both default to the last 30
// days ending today when absent.
func parseRange(r *http.Request) (model.DateRange, error) {
	q := r.URL.Query()
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	var err error
	if v := q.Get("start"); v != "" {
		start, err = time.Parse(dateLayout, v)
		if err != nil {
			return model.DateRange{}, domain.ErrInvalidArgument
		}
	}
	if v := q.Get("end"); v != "" {
		end, err = time.Parse(dateLayout, v)
		if err != nil {
			return model.DateRange{}, domain.ErrInvalidArgument
		}
	}
	return model.NewDateRange(start, end)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func badRange(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidRange) {
		http.Error(w, "start must not be after end", http.StatusBadRequest)
		return
	}
	http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
}

// overviewHandler serves the main dashboard payload.
func (s *Server) overviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rng, err := parseRange(r)
		if err != nil {
			badRange(w, err)
			return
		}

		report, err := s.dashboardUC.Overview(ctx, rng)
		if err != nil {
			http.Error(w, "Failed to build overview", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// featureHandler serves the per-feature deep dive for one validated tag.
func (s *Server) featureHandler(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		feature, err := model.ParseFeature(tag)
		if err != nil {
			http.Error(w, "Unknown feature", http.StatusNotFound)
			return
		}
		rng, err := parseRange(r)
		if err != nil {
			badRange(w, err)
			return
		}

		report, err := s.dashboardUC.FeatureDeepDive(ctx, rng, feature)
		if err != nil {
			http.Error(w, "Failed to build feature report", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// trendsHandler serves gap-filled activity series. Accepts 'granularity'
// (day, week, month; default day) and an optional 'feature' filter.
func (s *Server) trendsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rng, err := parseRange(r)
		if err != nil {
			badRange(w, err)
			return
		}

		g := model.GranularityDay
		if v := r.URL.Query().Get("granularity"); v != "" {
			g, err = model.ParseGranularity(v)
			if err != nil {
				http.Error(w, "Invalid granularity, expected day, week or month", http.StatusBadRequest)
				return
			}
		}

		var feature *model.Feature
		if v := r.URL.Query().Get("feature"); v != "" {
			f, err := model.ParseFeature(v)
			if err != nil {
				http.Error(w, "Unknown feature", http.StatusBadRequest)
				return
			}
			feature = &f
		}

		series, err := s.dashboardUC.Trends(ctx, rng, g, feature)
		if err != nil {
			http.Error(w, "Failed to build trend series", http.StatusInternalServerError)
			return
		}

		// The series struct carries time.Time periods; render them as
		// dates matching the request granularity boundaries.
		type point struct {
			Period      string `json:"period"`
			ActiveUsers int    `json:"active_users"`
		}
		points := make([]point, len(series.Points))
		for i, p := range series.Points {
			points[i] = point{Period: p.Period.Format(dateLayout), ActiveUsers: p.ActiveUsers}
		}
		response := struct {
			Start       string  `json:"start"`
			End         string  `json:"end"`
			Granularity string  `json:"granularity"`
			Feature     *string `json:"feature,omitempty"`
			Points      []point `json:"points"`
		}{
			Start:       series.Range.Start.Format(dateLayout),
			End:         series.Range.End.Format(dateLayout),
			Granularity: string(series.Granularity),
			Points:      points,
		}
		if series.Feature != nil {
			f := series.Feature.String()
			response.Feature = &f
		}
		writeJSON(w, http.StatusOK, response)
	}
}

// engagementHandler serves dormancy, churn and combination data. Accepts an
// optional 'lookback_days' override for the dormancy window.
func (s *Server) engagementHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rng, err := parseRange(r)
		if err != nil {
			badRange(w, err)
			return
		}

		lookback := s.defaultLookback
		if v := r.URL.Query().Get("lookback_days"); v != "" {
			lookback, err = strconv.Atoi(v)
			if err != nil || lookback <= 0 {
				http.Error(w, "Invalid lookback_days", http.StatusBadRequest)
				return
			}
		}

		report, err := s.dashboardUC.Engagement(ctx, rng, lookback)
		if err != nil {
			http.Error(w, "Failed to build engagement report", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// ffpHandler serves the Free Financial Plan engagement page.
func (s *Server) ffpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rng, err := parseRange(r)
		if err != nil {
			badRange(w, err)
			return
		}

		report, err := s.ffpUC.Engagement(ctx, rng)
		if err != nil {
			http.Error(w, "Failed to build FFP report", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
