package application

import (
	"context"
	"fmt"
	"strings"

	"telegram-aroma-oracle/internal/usecase"
)

// Fixed reply texts. Start/help wording follows the original bot; the rest
// of the surface keeps the same voice.
const (
	MsgWelcome    = "Привет 🌿! Я твой Арома-Оракул. Жми /draw, чтобы вытянуть масло дня, или /help."
	MsgHelp       = "Доступные команды:\n/start - приветствие\n/draw - масло дня\n/saved - сохранённые масла\n/help - помощь"
	MsgComeBack   = "Ты уже вытянул масло сегодня 🌙 Возвращайся завтра!"
	MsgSaved      = "Сохранено ✨ Смотри /saved."
	MsgNothingYet = "Пока ничего не сохранено. Вытяни масло дня командой /draw 🌿"
	MsgTryAgain   = "Что-то пошло не так. Попробуй ещё раз."
)

// BotFacade composes usecases into high-level bot commands.
// Methods return plain strings so the Telegram adapter just forwards them.
type BotFacade struct {
	UserUC  usecase.UserUseCase
	DrawUC  usecase.DrawUseCase
	SavedUC usecase.SavedOilUseCase

	savedListLimit int
}

func NewBotFacade(userUC usecase.UserUseCase, drawUC usecase.DrawUseCase, savedUC usecase.SavedOilUseCase, savedListLimit int) *BotFacade {
	if savedListLimit <= 0 {
		savedListLimit = 10
	}
	return &BotFacade{
		UserUC:         userUC,
		DrawUC:         drawUC,
		SavedUC:        savedUC,
		savedListLimit: savedListLimit,
	}
}

// HandleStart registers or fetches the user and returns the greeting.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username string) (string, error) {
	if _, err := b.UserUC.RegisterOrFetch(ctx, tgID, username); err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	return MsgWelcome, nil
}

func (b *BotFacade) HandleHelp(ctx context.Context) string {
	return MsgHelp
}

// HandleDraw runs the daily draw. The returned result carries the picked
// oil's id so the adapter can attach it to the Save button; when the draw
// is gated the text is the fixed come-back reply.
func (b *BotFacade) HandleDraw(ctx context.Context, tgID int64, username string) (string, *usecase.DrawResult, error) {
	res, err := b.DrawUC.DrawToday(ctx, tgID, username)
	if err != nil {
		return "", nil, fmt.Errorf("draw today: %w", err)
	}
	if res.Gated {
		return MsgComeBack, res, nil
	}
	return formatOil(res), res, nil
}

// HandleSave appends the oil referenced by the pressed Save button.
func (b *BotFacade) HandleSave(ctx context.Context, tgID int64, oilID int) (string, error) {
	if err := b.SavedUC.Save(ctx, tgID, oilID); err != nil {
		return "", fmt.Errorf("save oil: %w", err)
	}
	return MsgSaved, nil
}

// HandleSaved renders the user's recent saves, newest first. Entries whose
// oil no longer resolves were already dropped by the usecase; an empty
// result gets its own message instead of an empty list.
func (b *BotFacade) HandleSaved(ctx context.Context, tgID int64) (string, error) {
	views, err := b.SavedUC.ListRecent(ctx, tgID, b.savedListLimit)
	if err != nil {
		return "", fmt.Errorf("list saved oils: %w", err)
	}
	if len(views) == 0 {
		return MsgNothingYet, nil
	}

	sb := strings.Builder{}
	sb.WriteString("🗂 Твои сохранённые масла:\n")
	for i, v := range views {
		name := v.Oil.Name
		if v.Oil.Emoji != "" {
			name = v.Oil.Emoji + " " + name
		}
		sb.WriteString(fmt.Sprintf("%d) %s — %s\n", i+1, name, v.SavedAt.Format("2006-01-02")))
	}
	return sb.String(), nil
}

func formatOil(res *usecase.DrawResult) string {
	oil := res.Oil
	sb := strings.Builder{}
	sb.WriteString("Масло дня")
	if oil.Emoji != "" {
		sb.WriteString(" " + oil.Emoji)
	}
	sb.WriteString(": " + oil.Name + "\n")
	if oil.PhysicalDescription != "" {
		sb.WriteString("\n🫧 Тело: " + oil.PhysicalDescription + "\n")
	}
	if oil.EmotionalDescription != "" {
		sb.WriteString("\n💚 Душа: " + oil.EmotionalDescription + "\n")
	}
	if oil.Mantra != "" {
		sb.WriteString("\n✨ Мантра: " + oil.Mantra + "\n")
	}
	return sb.String()
}
