package app

import (
	"github.com/gorilla/mux"
	"github.com/planj/planj/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Accounts
	r.HandleFunc("/api/auth/register", deps.AuthHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", deps.AuthHandler.Logout).Methods("POST")
	r.HandleFunc("/api/auth/delete", deps.AuthHandler.DeleteAccount).Methods("DELETE")

	// Friends
	r.HandleFunc("/api/friend/add", deps.FriendHandler.Add).Methods("POST")
	r.HandleFunc("/api/friend/", deps.FriendHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/friend/", deps.FriendHandler.Delete).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/category", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/category/{categoryUuid}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/category/{categoryUuid}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Schedules
	r.HandleFunc("/api/schedule/add", deps.ScheduleHandler.AddSchedule).Methods("POST")
	r.HandleFunc("/api/schedule", deps.ScheduleHandler.UpdateSchedule).Methods("PUT")
	r.HandleFunc("/api/schedule/daily", deps.ScheduleHandler.GetDaily).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/schedule/weekly", deps.ScheduleHandler.GetWeekly).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/schedule/ical", deps.ExportHandler.ExportICal).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/schedule/{scheduleUuid}", deps.ScheduleHandler.DeleteSchedule).Methods("DELETE")

	// Sharing
	r.HandleFunc("/api/schedule/{scheduleUuid}/participant", deps.ScheduleHandler.RemoveParticipant).Methods("DELETE")
	r.HandleFunc("/api/schedule/{scheduleUuid}/participants", deps.ScheduleHandler.StopSharing).Methods("DELETE")
}
