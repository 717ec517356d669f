package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	priceformatter "github.com/x-xyz/marketplace/base/price_formatter"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

// EmbedSender is the part of *discordgo.Session the notifier needs
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type NotifierCfg struct {
	BotKey    string
	ChannelId string
	// Sender overrides the session built from BotKey
	Sender EmbedSender
	// AssetUrl formats the link of a listed asset, contract then token id
	AssetUrl string
}

// Notifier posts marketplace events to a discord channel
type Notifier struct {
	sender    EmbedSender
	channelId string
	assetUrl  string
}

func NewNotifier(cfg *NotifierCfg) (*Notifier, error) {
	sender := cfg.Sender
	if sender == nil {
		session, err := discordgo.New(fmt.Sprintf("Bot %s", cfg.BotKey))
		if err != nil {
			return nil, err
		}
		sender = session
	}
	return &Notifier{
		sender:    sender,
		channelId: cfg.ChannelId,
		assetUrl:  cfg.AssetUrl,
	}, nil
}

func (n *Notifier) embed(ev *marketplace.Event) *discordgo.MessageEmbed {
	price := fmt.Sprintf("%s ETH", priceformatter.FormatEther(ev.PriceInt()))
	msg := &discordgo.MessageEmbed{
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Listing", Value: ev.ListingId.String(), Inline: true},
			{Name: "Asset", Value: fmt.Sprintf("%s #%s", ev.AssetContract, ev.AssetId), Inline: true},
			{Name: "Seller", Value: string(ev.Seller)},
		},
	}
	if n.assetUrl != "" {
		msg.Description = fmt.Sprintf(n.assetUrl, ev.AssetContract, ev.AssetId)
	}

	switch ev.Kind {
	case marketplace.EventKindBought:
		msg.Title = "Item sold!"
		msg.Fields = append(msg.Fields,
			&discordgo.MessageEmbedField{Name: "Buyer", Value: string(ev.Buyer)},
			&discordgo.MessageEmbedField{Name: "Price", Value: price},
		)
	default:
		msg.Title = "Item listed!"
		msg.Fields = append(msg.Fields, &discordgo.MessageEmbedField{Name: "Price", Value: price})
	}
	return msg
}

// Notify sends one message per event
func (n *Notifier) Notify(c ctx.Ctx, ev *marketplace.Event) error {
	if _, err := n.sender.ChannelMessageSendEmbed(n.channelId, n.embed(ev)); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"seq":       ev.Seq,
			"channelId": n.channelId,
		}).Error("failed to discord.ChannelMessageSendEmbed")
		return err
	}
	return nil
}
