package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"

	"github.com/rdl-tech/coupon-radar/internal/modules/coupon/domain"
)

// Service announces freshly captured coupons to a Telegram chat via
// the bot API. It is best effort: the pipeline logs and swallows any
// failure here.
type Service struct {
	bot    *bot.Bot
	chatID string
	logger *slog.Logger
}

// New creates the announcement service. token and chatID come from
// configuration; an empty token disables announcements at the wiring
// level, so New assumes both are set.
func New(token, chatID string, logger *slog.Logger) (*Service, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, oops.With("context", "failed to create notification bot").Wrap(err)
	}

	return &Service{bot: b, chatID: chatID, logger: logger}, nil
}

func (s *Service) NotifyNewCoupon(ctx context.Context, coupon *domain.Coupon) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    s.chatID,
		Text:      formatCoupon(coupon),
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		return oops.With("code", coupon.Code, "context", "failed to send coupon notification").Wrap(err)
	}

	s.logger.Debug("coupon announced", "code", coupon.Code)
	return nil
}

func formatCoupon(c *domain.Coupon) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎟 *Novo cupom capturado*\n\n")
	fmt.Fprintf(&b, "Código: `%s`\n", c.Code)
	fmt.Fprintf(&b, "Loja: %s\n", c.Platform)

	if c.DiscountType == domain.DiscountTypePercentage {
		fmt.Fprintf(&b, "Desconto: %.0f%%\n", c.DiscountValue)
	} else {
		fmt.Fprintf(&b, "Desconto: R$%.2f\n", c.DiscountValue)
	}
	if c.MinPurchase != nil {
		fmt.Fprintf(&b, "Compra mínima: R$%.2f\n", *c.MinPurchase)
	}
	fmt.Fprintf(&b, "Válido até: %s\n", c.ValidUntil.Format("02/01/2006"))
	fmt.Fprintf(&b, "Fonte: %s", c.ChannelOrigin)

	return b.String()
}
