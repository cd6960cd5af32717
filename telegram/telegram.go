package telegram

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"looksapi/languageutil"
	"looksapi/lookengine"
	"looksapi/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var usernames string = os.Getenv("TG_ADMINS") //separated by comma from env

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

func isAdmin(userName string) bool {
	for _, admin := range strings.Split(usernames, ",") {
		if admin == userName {
			return true
		}
	}
	return false
}

// RunAdminBot is an internal ops bot: /stats for platform counts, or send
// "<formality> <occasion>" to preview the generic suggestions the engine
// falls back to at that level.
func RunAdminBot(e *echo.Echo, db *gorm.DB) {

	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}
	bot.Debug = true

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)
		if !isAdmin(update.Message.From.UserName) {
			continue
		}

		if update.Message.Command() == "start" {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Send `/stats` for platform counts or `<formality 1-5> <occasion>` to preview looks, e.g.\n`4 client dinner downtown`")
			msg.ParseMode = "markdown"
			bot.Send(msg)
			continue
		}
		if update.Message.Command() == "stats" {
			var userCount, generationCount, productCount int64
			db.Model(&models.UserAccount{}).Count(&userCount)
			db.Model(&models.LookGeneration{}).Count(&generationCount)
			db.Model(&models.StoreProduct{}).Count(&productCount)
			msg := tgbotapi.NewMessage(update.Message.Chat.ID,
				fmt.Sprintf("Users: %v\nGenerations: %v\nCatalog products: %v", userCount, generationCount, productCount))
			bot.Send(msg)
			continue
		}

		parts := strings.SplitN(strings.TrimSpace(update.Message.Text), " ", 2)
		formality := 3
		occasion := update.Message.Text
		if len(parts) == 2 {
			if parsed, err := strconv.Atoi(parts[0]); err == nil {
				formality = parsed
				occasion = parts[1]
			}
		}

		output := lookengine.ComposeLooks(lookengine.GenerateInput{
			Mode: lookengine.ModeSeller,
			Occasion: lookengine.Occasion{
				Description:       occasion,
				ExpectedFormality: formality,
			},
		})

		summary := strings.Builder{}
		summary.WriteString(fmt.Sprintf("Looks for *%s*:\n\n", EscapeMessage(languageutil.TitleCaser.String(occasion))))
		for _, look := range output.Looks {
			summary.WriteString(fmt.Sprintf("*%s* (formality %v)\n", EscapeMessage(look.Title), look.Formality))
			for _, item := range look.Items {
				summary.WriteString(fmt.Sprintf("  - %s (%s)\n", EscapeMessage(item.Name), item.Category))
			}
		}
		summary.WriteString("\n")
		summary.WriteString(EscapeMessage(output.VoiceText))

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, summary.String())
		msg.ReplyToMessageID = update.Message.MessageID
		msg.ParseMode = "markdown"
		bot.Send(msg)
	}

}
