package receipt

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/trackmate/trackmate/internal/report"
	"github.com/trackmate/trackmate/internal/scanning"
)

// maxUploadSize bounds multipart parsing; phone photos can be large
const maxUploadSize = int64(50 << 20) // 50MB

type loginPage struct {
	Error string
}

type uploadPage struct {
	Username string
	Error    string
	Saved    bool
	Result   *UploadResult
}

type viewPage struct {
	Username        string
	Error           string
	HasRecords      bool
	Report          report.Report
	AllVendors      []string
	SelectedVendors map[string]bool
	From            string
	To              string
	Query           string
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Error rendering template", "template", name, "error", err)
	}
}

// handleLoginPage serves the login form
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login", loginPage{})
}

// handleLogin checks credentials and opens a session. On first login with
// no records, demo data is seeded so the charts are not empty.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, "login", loginPage{Error: "Invalid form submission"})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	ok, err := s.service.Login(r.Context(), username, password)
	if err != nil {
		slog.Error("Error checking credentials", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, "login", loginPage{Error: "Storage error, please try again: " + err.Error()})
		return
	}
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, "login", loginPage{Error: "Invalid credentials!"})
		return
	}

	if err := s.service.EnsureDemoData(r.Context(), username); err != nil {
		slog.Error("Error seeding demo data", "user_id", username, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, "login", loginPage{Error: "Storage error, please try again: " + err.Error()})
		return
	}

	session := s.sessions.Create(username)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout ends the session
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, session *Session) {
	s.sessions.Delete(session.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleUploadPage serves the upload form
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request, session *Session) {
	s.render(w, "upload", uploadPage{Username: session.UserID})
}

// handleUpload receives the image, runs OCR and re-renders the form with
// the heuristic pre-fill for the user to confirm.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, session *Session) {
	page := uploadPage{Username: session.UserID}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		page.Error = "Error parsing form"
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, "upload", page)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		page.Error = "No file was selected. Please choose a file to upload."
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, "upload", page)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		page.Error = "Error reading file. Please try again."
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, "upload", page)
		return
	}

	contentType := uploadContentType(header.Filename, header.Header.Get("Content-Type"))
	if contentType != "image/jpeg" && contentType != "image/png" {
		page.Error = scanning.ErrUnsupportedFormat.Error()
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, "upload", page)
		return
	}

	result, err := s.service.ProcessUpload(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing upload", "filename", header.Filename, "error", err)
		page.Error = "OCR failed or invalid image. Error: " + err.Error()
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, "upload", page)
		return
	}

	page.Result = result
	s.render(w, "upload", page)
}

// uploadContentType normalizes the upload's content type, falling back to
// the filename extension when the browser did not send one.
func uploadContentType(filename, contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// handleSaveReceipt persists the confirmed record. Values pass through as
// submitted; an unparseable amount becomes 0 rather than an error, the
// same silent fallback the pre-fill uses.
func (s *Server) handleSaveReceipt(w http.ResponseWriter, r *http.Request, session *Session) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, "upload", uploadPage{Username: session.UserID, Error: "Invalid form submission"})
		return
	}

	amount, err := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	if err != nil {
		slog.Warn("Unparseable amount on save, storing 0", "amount", r.PostFormValue("amount"))
		amount = 0
	}

	_, err = s.service.SaveReceipt(
		r.Context(),
		session.UserID,
		r.PostFormValue("vendor"),
		r.PostFormValue("date"),
		amount,
		r.PostFormValue("filename"),
	)
	if err != nil {
		slog.Error("Error saving receipt", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, "upload", uploadPage{Username: session.UserID, Error: "Storage error, receipt not saved: " + err.Error()})
		return
	}

	s.render(w, "upload", uploadPage{Username: session.UserID, Saved: true})
}

// reportOptions derives filter options from the request's query string
func reportOptions(r *http.Request) report.Options {
	q := r.URL.Query()
	opts := report.Options{Vendors: q["vendor"]}
	if from, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		opts.From = from
	}
	if to, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		opts.To = to
	}
	return opts
}

// handleViewReceipts renders the filtered records, statistics and trends
func (s *Server) handleViewReceipts(w http.ResponseWriter, r *http.Request, session *Session) {
	opts := reportOptions(r)
	rep, vendors, err := s.service.Report(r.Context(), session.UserID, opts)
	if err != nil {
		slog.Error("Error building report", "user_id", session.UserID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, "view", viewPage{Username: session.UserID, Error: "Storage error, please try again: " + err.Error()})
		return
	}

	selected := make(map[string]bool, len(opts.Vendors))
	for _, v := range opts.Vendors {
		selected[v] = true
	}

	s.render(w, "view", viewPage{
		Username:        session.UserID,
		HasRecords:      len(vendors) > 0,
		Report:          rep,
		AllVendors:      vendors,
		SelectedVendors: selected,
		From:            r.URL.Query().Get("from"),
		To:              r.URL.Query().Get("to"),
		Query:           r.URL.RawQuery,
	})
}

// handleExport streams the filtered records as a spreadsheet download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, session *Session) {
	rep, _, err := s.service.Report(r.Context(), session.UserID, reportOptions(r))
	if err != nil {
		slog.Error("Error building export", "user_id", session.UserID, "error", err)
		http.Error(w, "Storage error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := report.Export(rep.Records)
	if err != nil {
		slog.Error("Error serializing export", "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", report.ExportMIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.ExportFilename+`"`)
	w.Write(data)
}
