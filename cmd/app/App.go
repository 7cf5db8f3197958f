package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"xelaConnect/configs"
	"xelaConnect/internal/errs"
	"xelaConnect/internal/handlers"
	"xelaConnect/internal/interfaces"
	"xelaConnect/internal/logger"
	"xelaConnect/internal/models"
	"xelaConnect/internal/repositories"
	"xelaConnect/internal/servers/database"
	"xelaConnect/internal/servers/http"
	"xelaConnect/internal/services"
	"xelaConnect/internal/views"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	configs *configs.Config
	logger  zerolog.Logger
}

func GetApp() *App {
	once.Do(func() {
		app = New(configs.GetConfig())
	})
	return app
}

func New(cfg *configs.Config) *App {
	return &App{
		configs: cfg,
		logger:  logger.New(cfg),
	}
}

func (app *App) Config() *configs.Config {
	return app.configs
}

// Serve runs the development messaging service until ctx is done.
func (app *App) Serve(ctx context.Context) error {
	store, err := app.initializeStore(ctx)
	if err != nil {
		return err
	}
	publisher, err := app.initializePublisher(ctx)
	if err != nil {
		return err
	}
	defer publisher.Close()

	authRepo := repositories.NewAuthenticationRepository(store)
	authService := services.NewAuthenticationService(authRepo, app.configs)
	chatService := services.NewChatService(store, publisher, app.logger)

	restHandler := handlers.NewRestHandler(authService, chatService, app.logger)
	socketHandler := handlers.NewSocketHandler(publisher, app.logger)

	return http.NewHttpServer(
		app.configs.Viper.GetString("server.address"),
		app.configs.JwtKey(),
		restHandler,
		socketHandler,
		app.logger,
	).Run(ctx)
}

func (app *App) initializeStore(ctx context.Context) (interfaces.ChatStore, error) {
	if app.configs.Viper.GetBool("database.enabled") {
		db, err := database.GetDB(app.configs)
		if err != nil {
			return nil, err
		}
		store := repositories.NewGormChatRepository(db)
		if err := repositories.SeedMockData(ctx, store); err != nil {
			return nil, err
		}
		return store, nil
	}

	store := repositories.NewChatRepository()
	if err := repositories.SeedMockData(ctx, store); err != nil {
		return nil, err
	}
	app.logger.Info().Int("users", len(repositories.MockUsers)).Msg("using in-memory store with mock data")
	return store, nil
}

func (app *App) initializePublisher(ctx context.Context) (interfaces.EventPublisher, error) {
	if !app.configs.Viper.GetBool("redis.enabled") {
		return services.NewLocalEventPublisher(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.address"),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unavailable: %w", err)
	}
	return services.NewRedisEventPublisher(client, app.configs.Viper.GetString("redis.channel"), app.logger), nil
}

func (app *App) Storage() *repositories.LocalStorageRepository {
	return repositories.NewLocalStorageRepository(
		app.configs.Viper.GetString("storage.path"),
		app.configs.Viper.GetString("storage.token_key"),
	)
}

// Credentials prefers a token from configuration over the stored one.
func (app *App) Credentials() interfaces.CredentialProvider {
	if token := app.configs.Viper.GetString("api.token"); token != "" {
		return services.NewStaticCredentialProvider(token)
	}
	return app.Storage()
}

func (app *App) MessagingClient() *services.MessagingClient {
	return services.NewMessagingClient(
		app.configs.Viper.GetString("api.base_url"),
		app.configs.HTTPTimeout(),
		app.Credentials(),
	)
}

// Login stores a fresh token in local storage.
func (app *App) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	response, err := app.MessagingClient().Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	storage := app.Storage()
	if err := storage.SetToken(response.Token); err != nil {
		return nil, err
	}
	if err := storage.Set("viewer_id", response.User.ID); err != nil {
		return nil, err
	}
	return response, nil
}

func (app *App) Logout() error {
	return app.Storage().ClearToken()
}

// Chat mounts a conversation view with partnerID and drives it from a line
// based terminal: every input line is sent, the view is redrawn on change.
func (app *App) Chat(ctx context.Context, partnerID string, in io.Reader, out io.Writer) error {
	storage := app.Storage()
	viewerID := app.configs.Viper.GetString("viewer.id")
	if viewerID == "" {
		stored, err := storage.Get("viewer_id")
		if err != nil {
			return err
		}
		viewerID = stored
	}

	view, err := services.NewConversationView(app.MessagingClient(), services.ConversationViewOptions{
		PartnerID:          partnerID,
		ViewerID:           viewerID,
		PollInterval:       app.configs.PollInterval(),
		MaxPollInterval:    app.configs.PollMaxInterval(),
		PollRandomization:  app.configs.Viper.GetFloat64("poll.randomization"),
		PushResyncInterval: app.configs.Viper.GetDuration("push.resync_interval"),
		Logger:             app.logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := view.Mount(ctx); err != nil {
		return err
	}
	defer view.Unmount()

	if app.configs.Viper.GetBool("push.enabled") {
		subscriber := services.NewPushSubscriber(app.configs.Viper.GetString("push.url"), app.Credentials(), app.logger)
		go subscriber.Run(ctx, view)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-view.Updates():
			if err := views.WriteConversation(out, view.Render(), 60); err != nil {
				return err
			}
			for _, notification := range view.TakeNotifications() {
				fmt.Fprintf(out, "[%s] %s\n", notification.Title, notification.Description)
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "/quit" {
				return nil
			}
			view.SetInput(line)
			if !view.CanSend() {
				continue
			}
			go func() {
				if err := view.Send(ctx); err != nil && !errors.Is(err, errs.ErrSendInFlight) {
					app.logger.Debug().Err(err).Msg("send finished with error")
				}
			}()
		}
	}
}
