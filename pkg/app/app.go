package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kerbaras/mangashelf/pkg/app/screens"
	"github.com/kerbaras/mangashelf/pkg/services"
)

type App struct {
	ctx        context.Context
	controller *services.MangaController
	logger     *zap.Logger
}

func NewApp(ctx context.Context, controller *services.MangaController, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{ctx: ctx, controller: controller, logger: logger}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.ctx, a.controller)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(a.ctx),
	)

	a.logger.Info("starting interface")
	_, err := p.Run()
	if err != nil {
		a.logger.Error("interface stopped", zap.Error(err))
	}
	return err
}
