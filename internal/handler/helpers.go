package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

// parseDateRange reads the start/end query parameters that scope meal plans
// and grocery lists. Both are required, formatted as 2006-01-02.
func parseDateRange(r *http.Request) (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		return start, end, fmt.Errorf("invalid start date")
	}
	end, err = time.Parse(dateLayout, r.URL.Query().Get("end"))
	if err != nil {
		return start, end, fmt.Errorf("invalid end date")
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end date before start date")
	}
	return start, end, nil
}

// userIDParam reads the optional user_id query parameter. The server runs in
// single-household mode by default, so a missing parameter means user 1.
func userIDParam(r *http.Request) int64 {
	if v := r.URL.Query().Get("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return 1
}
