package email

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gr8tracker/internal/models"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func testBundle() models.StatsBundle {
	game := &models.ScheduledGame{
		Date:      time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		LocalTime: "12:30 PM ET",
		Opponent:  "Columbus Blue Jackets",
	}
	return models.BuildBundle(models.DerivedStats{
		TotalGoals:        886,
		GoalsNeeded:       9,
		RecordGoals:       894,
		ProjectedDate:     "04/12/2025",
		ProjectedGame:     game,
		ProjectedGameInfo: game.Info(),
	})
}

func TestSendUsesDefaultRecipient(t *testing.T) {
	fake := &fakeSES{}
	sender := &Sender{client: fake, sender: "from@example.com", recipient: "to@example.com"}

	err := sender.Send(context.Background(), testBundle(), "")
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, "from@example.com", aws.ToString(fake.input.FromEmailAddress))
	assert.Equal(t, []string{"to@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "Ovechkin Goal Tracker: 886 goals, 9 to break the record",
		aws.ToString(fake.input.Content.Simple.Subject.Data))
	assert.Contains(t, aws.ToString(fake.input.Content.Simple.Body.Text.Data), "- Total Goals: 886")
	assert.Contains(t, aws.ToString(fake.input.Content.Simple.Body.Html.Data), "Projected Record-Breaking Game")
}

func TestSendRecipientOverride(t *testing.T) {
	fake := &fakeSES{}
	sender := &Sender{client: fake, sender: "from@example.com", recipient: "to@example.com"}

	err := sender.Send(context.Background(), testBundle(), "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"other@example.com"}, fake.input.Destination.ToAddresses)
}

func TestSendErrorWrapsRecipient(t *testing.T) {
	fake := &fakeSES{err: assert.AnError}
	sender := &Sender{client: fake, sender: "from@example.com", recipient: "to@example.com"}

	err := sender.Send(context.Background(), testBundle(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to@example.com")
}
