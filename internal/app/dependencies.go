package app

import (
	"database/sql"

	"github.com/planj/planj/internal/config"
	"github.com/planj/planj/internal/utils"
	"github.com/planj/planj/pkg/auth"
	"github.com/planj/planj/pkg/category"
	"github.com/planj/planj/pkg/export"
	"github.com/planj/planj/pkg/friend"
	"github.com/planj/planj/pkg/repetition"
	"github.com/planj/planj/pkg/retention"
	"github.com/planj/planj/pkg/schedule"
	"github.com/planj/planj/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service

	AuthService auth.Service
	AuthHandler *auth.Handler

	CategoryService category.Service
	CategoryHandler *category.Handler

	FriendService friend.Service
	FriendHandler *friend.Handler

	ScheduleRepo      schedule.Repository
	LocationService   *schedule.LocationService
	ParticipationRepo schedule.ParticipationRepo
	Sharing           *schedule.Sharing
	RepetitionService repetition.Service
	ScheduleService   schedule.Service
	ScheduleHandler   *schedule.Handler

	ExportService export.Service
	ExportHandler *export.Handler

	RetentionJanitor *retention.Janitor

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))

	deps.AuthService = auth.NewService(deps.UserService, auth.NewSessionRepo(db), deps.Clock)
	deps.AuthHandler = auth.NewHandler(deps.AuthService)

	deps.CategoryService = category.NewService(category.NewRepository(db))
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.FriendService = friend.NewService(friend.NewRepository(db), deps.UserService)
	deps.FriendHandler = friend.NewHandler(deps.FriendService)

	deps.ScheduleRepo = schedule.NewRepository(db)
	deps.LocationService = schedule.NewLocationService(schedule.NewLocationRepo(db))
	deps.ParticipationRepo = schedule.NewParticipationRepo(db)
	deps.Sharing = schedule.NewSharing(deps.ScheduleRepo, deps.LocationService, deps.ParticipationRepo, deps.UserService)
	deps.RepetitionService = repetition.NewService(repetition.NewRepository(db))
	deps.ScheduleService = schedule.NewService(deps.ScheduleRepo, deps.LocationService, deps.RepetitionService,
		deps.CategoryService, deps.Sharing)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService, deps.Sharing)

	deps.ExportService = export.NewService(deps.ScheduleRepo, deps.RepetitionService)
	deps.ExportHandler = export.NewHandler(deps.ExportService)

	deps.RetentionJanitor = retention.NewJanitor(retention.NewRepository(db), deps.Clock, cfg.Retention.Days)

	return deps
}
