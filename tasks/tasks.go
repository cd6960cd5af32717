package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"looksapi/lookengine"
	"looksapi/models"
	"looksapi/services"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type LookGenerationPayload struct {
	GenerationID uint `json:"generation_id"`
}

// NewLookGenerationTask enqueues one stored generation request for the
// worker, used when the request asks for smart copy and we do not want the
// LLM round trip inside the request cycle.
func NewLookGenerationTask(generationID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(LookGenerationPayload{GenerationID: generationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("generate:looks", payload), nil
}

func NewDailyLookReminderTask() *asynq.Task {
	return asynq.NewTask("generate:daily_reminder", []byte{})
}

// HandleLookGenerationTask runs the full pipeline for a pending generation
// record and stores the finished batch on it.
func HandleLookGenerationTask(ctx context.Context, t *asynq.Task, db *gorm.DB, refiner lookengine.CopyRefiner, resultStore lookengine.ResultStore, fbApp *firebase.App) error {
	var payload LookGenerationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Generation: %v] Start processing\n", payload.GenerationID)

	var generation models.LookGeneration
	res := db.Preload("UserAccount").First(&generation, payload.GenerationID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving generation for processing %v", payload.GenerationID))
		return res.Error
	}

	input, err := services.BuildGenerateInput(
		db, generation.UserAccount, generation.CompanyID,
		lookengine.Occasion{
			Description:       generation.OccasionDescription,
			ExpectedFormality: generation.ExpectedFormality,
		},
		lookengine.Mode(generation.Mode), generation.SmartCopy,
	)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Error building engine input: %w", payload.GenerationID, err))
		return saveGenerationFail(db, generation, "Could not load your wardrobe and catalog, please try again", err)
	}

	// route token accounting from the refiner back onto the record
	var usage *services.LLMUsage
	if google, ok := refiner.(*services.GoogleCopyRefiner); ok {
		clone := *google
		clone.OnUsage = func(u services.LLMUsage) { usage = &u }
		refiner = &clone
	}

	pipeline := &lookengine.Pipeline{Store: resultStore, Refiner: refiner}
	started := time.Now()
	output, err := pipeline.Generate(ctx, input)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Pipeline failed: %w", payload.GenerationID, err))
		return saveGenerationFail(db, generation, "Could not compose your looks, please try again", err)
	}

	resultJSON, err := json.Marshal(output)
	if err != nil {
		sentry.CaptureException(err)
		return saveGenerationFail(db, generation, "Could not store your looks, please try again", err)
	}

	duration := time.Since(started).Seconds()
	generation.Status = "completed"
	generation.ResultJSON = services.StrPointer(string(resultJSON))
	generation.ErrorMessage = nil
	generation.Duration = &duration
	if usage != nil {
		generation.LLMModel = services.StrPointer(usage.Model)
		generation.LLMInputTokenCount = &usage.InputTokenCount
		generation.LLMOutputTokenCount = &usage.OutputTokenCount
		generation.LLMTotalTokenCount = &usage.TotalTokenCount
	}
	if err := db.Save(&generation).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Error saving completed generation: %w", payload.GenerationID, err))
		return err
	}
	fmt.Printf("[Generation: %v] Completed in %.2fs\n", payload.GenerationID, duration)

	if fbApp != nil {
		services.SendNotification(fbApp, db, generation.UserAccountID,
			"Your looks are ready",
			fmt.Sprintf("We put together three looks for: %s", generation.OccasionDescription),
			map[string]string{"generation_id": fmt.Sprintf("%d", generation.ID), "type": "looks_ready"})
	}
	return nil
}

func saveGenerationFail(db *gorm.DB, generation models.LookGeneration, userMessage string, cause error) error {
	generation.Status = "failed"
	generation.ErrorMessage = services.StrPointer(userMessage)
	generation.RetryTimes++
	if tx := db.Save(&generation); tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Generation: %v] Error on saving failed status", generation.ID))
		return tx.Error
	}
	return cause
}

// ScheduledDailyLookTask pregenerates a neutral-formality batch per opted-in
// user so the morning app open hits a warm cache, then pings them.
func ScheduledDailyLookTask(ctx context.Context, t *asynq.Task, db *gorm.DB, resultStore lookengine.ResultStore, fbApp *firebase.App) error {
	fmt.Printf("[Daily Looks] Processing for all users\n")

	var users []models.UserAccount
	result := db.Preload("Memberships").
		Where("banned = ? AND receive_notifications = ?", false, true).Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Daily Looks] Error fetching users: %v", result.Error))
		return result.Error
	}
	fmt.Printf("[Daily Looks] Found %d users\n", len(users))

	pipeline := &lookengine.Pipeline{Store: resultStore}
	for _, user := range users {
		if len(user.Memberships) == 0 {
			continue
		}
		input, err := services.BuildGenerateInput(db, user, user.Memberships[0].CompanyID,
			lookengine.Occasion{Description: "Today's outfit", ExpectedFormality: 3},
			lookengine.ModeConsumer, false)
		if err != nil {
			sentry.CaptureException(fmt.Errorf("[Daily Looks] Failed building input for user %d: %v", user.ID, err))
			continue
		}
		if _, err := pipeline.Generate(ctx, input); err != nil {
			sentry.CaptureException(fmt.Errorf("[Daily Looks] Failed pregenerating for user %d: %v", user.ID, err))
			continue
		}
		if fbApp != nil {
			services.SendNotification(fbApp, db, user.ID,
				"Today's looks are ready",
				"Open the app to see three outfits picked for your day.",
				map[string]string{"type": "daily_looks"})
		}
		fmt.Printf("[Daily Looks] Pregenerated for user %d\n", user.ID)
		time.Sleep(1 * time.Second) // To avoid hitting rate limits
	}
	return nil
}
