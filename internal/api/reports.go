package api

import "net/http"

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.svc.Reports.TaskStatusCounts(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleTimeSpent(w http.ResponseWriter, r *http.Request) {
	spent, err := s.svc.Reports.TotalTimeSpent(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spent)
}

func (s *Server) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Reports.ProjectSummary(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activity, err := s.svc.Reports.ActivityByRange(r.Context(), userID(r), q.Get("from"), q.Get("to"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}
