package application

import "checkin/internal/ports/input"

var (
	_ input.AuthUseCase        = (*AuthService)(nil)
	_ input.UserUseCase        = (*UserService)(nil)
	_ input.ParticipantUseCase = (*ParticipantService)(nil)
	_ input.EventUseCase       = (*EventService)(nil)
	_ input.EntryUseCase       = (*EntryService)(nil)
	_ input.StatisticsUseCase  = (*StatisticsService)(nil)
)
