package api

import (
	"github.com/gorilla/mux"

	"github.com/buildfastwithai/jd-qna/internal/config"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

// Deps bundles everything the handlers need.
type Deps struct {
	Records       repository.RecordRepo
	Skills        repository.SkillRepo
	Questions     repository.QuestionRepo
	Regenerations repository.RegenerationRepo
	Feedback      repository.FeedbackRepo
	Analytics     repository.AnalyticsRepo

	Engine   Engine
	Uploader Uploader
	Flo      PoolPusher
}

func SetupRoutes(cfg *config.Config, version, buildTime string, deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	recordsHandler := NewRecordsHandler(deps.Records, deps.Skills, deps.Questions, deps.Feedback, deps.Engine)
	skillsHandler := NewSkillsHandler(deps.Skills, deps.Feedback)
	questionsHandler := NewQuestionsHandler(deps.Records, deps.Skills, deps.Questions, deps.Regenerations, deps.Feedback, deps.Engine)
	analyticsHandler := NewAnalyticsHandler(deps.Analytics)
	exportHandler := NewExportHandler(deps.Records, deps.Skills, deps.Questions, cfg.ExportConfig)
	uploadHandler := NewUploadHandler(deps.Uploader)
	floHandler := NewFloCareerHandler(deps.Records, deps.Skills, deps.Questions, deps.Flo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// Protected API routes
	apiR := r.PathPrefix("/api").Subrouter()
	apiR.Use(BearerAuthMiddleware(cfg.APIToken))

	apiR.HandleFunc("/extract-skills", recordsHandler.ExtractSkills).Methods("POST")
	apiR.HandleFunc("/generate-questions", questionsHandler.GenerateQuestions).Methods("POST")

	apiR.HandleFunc("/records", recordsHandler.ListRecords).Methods("GET")
	apiR.HandleFunc("/records/{id}", recordsHandler.GetRecord).Methods("GET")
	apiR.HandleFunc("/records/{id}", recordsHandler.DeleteRecord).Methods("DELETE")
	apiR.HandleFunc("/records/{id}/add-skill", recordsHandler.AddSkill).Methods("POST")
	apiR.HandleFunc("/records/{id}/global-feedback", recordsHandler.GlobalFeedback).Methods("POST")
	apiR.HandleFunc("/records/{id}/regenerate-questions-from-skill", questionsHandler.RegenerateFromSkill).Methods("POST")
	apiR.HandleFunc("/records/{id}/flocareer-sync", floHandler.Sync).Methods("POST")

	apiR.HandleFunc("/skills/{id}", skillsHandler.UpdateSkill).Methods("PUT")
	apiR.HandleFunc("/skills/{id}", skillsHandler.DeleteSkill).Methods("DELETE")
	apiR.HandleFunc("/skills/{id}/feedback", skillsHandler.SkillFeedback).Methods("POST")

	apiR.HandleFunc("/questions/{id}", questionsHandler.UpdateQuestion).Methods("PUT")
	apiR.HandleFunc("/questions/{id}", questionsHandler.DeleteQuestion).Methods("DELETE")
	apiR.HandleFunc("/questions/{id}/like", questionsHandler.LikeQuestion).Methods("POST")
	apiR.HandleFunc("/questions/{id}/regenerate", questionsHandler.RegenerateQuestion).Methods("POST")

	apiR.HandleFunc("/regenerations/{id}/feedback", questionsHandler.RegenerationFeedback).Methods("POST")

	apiR.HandleFunc("/analytics/regenerations", analyticsHandler.RegenerationStats).Methods("GET")
	apiR.HandleFunc("/export-questions", exportHandler.ExportQuestions).Methods("POST")
	apiR.HandleFunc("/upload", uploadHandler.Upload).Methods("POST")

	return r
}
