package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-aroma-oracle/internal/application"
	"telegram-aroma-oracle/internal/config"
	"telegram-aroma-oracle/internal/domain/ports/adapter"
	"telegram-aroma-oracle/internal/infra/logging"
	red "telegram-aroma-oracle/internal/infra/redis"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, updateWorkers int, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if updateWorkers <= 0 {
		updateWorkers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           logger,
		updateWorkers: updateWorkers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

type cbHandler func(ctx context.Context, chatID int64, username, data string) error

// Exact-match callbacks
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"cmd:menu": func(ctx context.Context, id int64, _, _ string) error {
			return r.sendMainMenu(ctx, id, "Выбери действие:")
		},
		"cmd:draw": func(ctx context.Context, id int64, username, _ string) error {
			return r.doDraw(ctx, id, username)
		},
		"cmd:saved": func(ctx context.Context, id int64, _, _ string) error {
			return r.doSaved(ctx, id)
		},
	}
}

// Prefix-match callbacks
func (r *RealTelegramBotAdapter) cbPrefixRoutes() []struct {
	Prefix string
	Fn     cbHandler
} {
	return []struct {
		Prefix string
		Fn     cbHandler
	}{
		{
			// The Save button echoes back the shown oil's id; nothing about
			// the draw is kept server-side between the two taps.
			Prefix: "save:",
			Fn: func(ctx context.Context, id int64, _, data string) error {
				oilID, err := strconv.Atoi(strings.TrimPrefix(data, "save:"))
				if err != nil {
					return r.SendMessage(ctx, id, application.MsgTryAgain)
				}
				text, err := r.facade.HandleSave(ctx, id, oilID)
				if err != nil {
					logging.With(ctx, r.log).Error().Err(err).Msg("save failed")
					text = application.MsgTryAgain
				}
				return r.SendMessage(ctx, id, text)
			},
		},
	}
}

// SendMessage implements the adapter port.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons using tgbotapi.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(
	ctx context.Context,
	telegramID int64,
	text string,
	rows [][]adapter.InlineButton,
) error {
	// Support early cancellation
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				// safe fallback: use text as callback data
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			btns = append(btns, kb)
		}
		kbRows = append(kbRows, btns)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	msg := tgbotapi.NewMessage(telegramID, text)
	msg.ReplyMarkup = markup

	_, err := r.bot.Send(msg)
	return err
}

// parseCommand extracts the leading slash command from message text. In
// group chats Telegram appends the bot's username ("/draw@SomeBot"); that
// suffix is stripped. Plain text maps to "message".
func parseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "message"
	}
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	// ----- Inline button callbacks -----
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	// ----- Regular messages -----
	if update.Message == nil {
		return nil
	}
	tgUser := update.Message.From
	if tgUser == nil {
		return nil
	}
	tgID := int64(tgUser.ID)
	ctx = logging.WithTgID(ctx, tgID)

	command := parseCommand(update.Message.Text)
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, command), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			return r.SendMessage(ctx, tgID, "Слишком много запросов. Попробуй чуть позже.")
		}
	}

	switch command {
	case "/start":
		text, err := r.facade.HandleStart(ctx, tgID, tgUser.UserName)
		if err != nil {
			logging.With(ctx, r.log).Error().Err(err).Msg("start failed")
			return r.SendMessage(ctx, tgID, application.MsgTryAgain)
		}
		if err := r.sendMainMenu(ctx, tgID, text); err != nil {
			// Fallback plain message on error
			return r.SendMessage(ctx, tgID, text)
		}
		return nil

	case "/draw", "/oil":
		return r.doDraw(ctx, tgID, tgUser.UserName)

	case "/saved", "/history":
		return r.doSaved(ctx, tgID)

	case "/help":
		return r.SendMessage(ctx, tgID, r.facade.HandleHelp(ctx))

	case "message":
		// Plain text outside any command; the oracle only speaks when asked.
		return nil

	default:
		return r.SendMessage(ctx, tgID, r.facade.HandleHelp(ctx))
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop telegram spinner when we return
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	var chatID int64
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	} else {
		chatID = int64(query.From.ID)
	}
	if chatID == 0 {
		return nil
	}
	ctx = logging.WithTgID(ctx, chatID)

	data := strings.TrimSpace(query.Data)

	// Rate limit for callbacks
	if r.rateLimiter != nil {
		if allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(chatID, "cb:"+data), 30, time.Minute); err == nil && !allowed {
			return r.SendMessage(ctx, chatID, "Слишком много запросов. Попробуй чуть позже.")
		}
	}

	// Exact matches
	if fn, ok := r.cbRoutes()[data]; ok {
		return fn(ctx, chatID, query.From.UserName, data)
	}
	// Prefix matches
	for _, pr := range r.cbPrefixRoutes() {
		if strings.HasPrefix(data, pr.Prefix) {
			return pr.Fn(ctx, chatID, query.From.UserName, data)
		}
	}
	return errors.New("unknown callback data")
}

// doDraw runs the daily draw and renders either the oil card with a Save
// button or the fixed come-back reply.
func (r *RealTelegramBotAdapter) doDraw(ctx context.Context, tgID int64, username string) error {
	text, res, err := r.facade.HandleDraw(ctx, tgID, username)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("draw failed")
		return r.SendMessage(ctx, tgID, application.MsgTryAgain)
	}
	if res.Gated {
		return r.sendMainMenu(ctx, tgID, text)
	}
	rows := [][]adapter.InlineButton{
		{{Text: "💾 Сохранить", Data: "save:" + strconv.Itoa(res.Oil.ID)}},
		{{Text: "◀️ Меню", Data: "cmd:menu"}},
	}
	return r.SendButtons(ctx, tgID, text, rows)
}

func (r *RealTelegramBotAdapter) doSaved(ctx context.Context, tgID int64) error {
	text, err := r.facade.HandleSaved(ctx, tgID)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("saved listing failed")
		return r.SendMessage(ctx, tgID, application.MsgTryAgain)
	}
	return r.sendMainMenu(ctx, tgID, text)
}

// sendMainMenu shows the main actions as inline buttons.
func (r *RealTelegramBotAdapter) sendMainMenu(ctx context.Context, telegramID int64, intro string) error {
	rows := [][]adapter.InlineButton{
		{{Text: "🌿 Масло дня", Data: "cmd:draw"}},
		{{Text: "🗂 Сохранённые", Data: "cmd:saved"}},
	}
	if strings.TrimSpace(intro) == "" {
		intro = "Выбери действие:"
	}
	return r.SendButtons(ctx, telegramID, intro, rows)
}
