package root

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/dailyquest/internal/bot"
	"github.com/example/dailyquest/internal/scheduler"
	"github.com/example/dailyquest/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the Telegram bot and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				select {
				case sig := <-sigChan:
					log.Printf("Received signal: %v", sig)
					cancel()
				case <-ctx.Done():
				}
			}()

			var wg sync.WaitGroup

			if a.cfg.TelegramEnabled() {
				b, err := bot.New(a.cfg.TelegramToken, bot.Config{
					Game:    a.game,
					Planner: a.planner,
					ChatID:  a.cfg.TelegramChatID,
					Logger:  newLogger("bot"),
				})
				if err != nil {
					return err
				}

				if a.cfg.EnableScheduler {
					sched := scheduler.New(b, a.game, a.planner, scheduler.Options{
						Location:     a.game.Location(),
						ReminderHour: a.cfg.ReminderHour,
						StartHour:    a.cfg.NotificationStartHour,
						EndHour:      a.cfg.NotificationEndHour,
						Logger:       newLogger("scheduler"),
					})
					if err := sched.Start(); err != nil {
						return err
					}
					defer sched.Stop()
				}

				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Printf("Bot error: %v", err)
					}
				}()
			} else {
				log.Println("TELEGRAM_BOT_TOKEN is not set, running without the Telegram bot and reminders")
			}

			srv := server.New(a.game, a.planner, newLogger("http"))
			err = srv.ListenAndServe(ctx, addr)
			cancel()
			wg.Wait()
			if err != nil {
				return err
			}
			log.Println("Stopped successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	return cmd
}
