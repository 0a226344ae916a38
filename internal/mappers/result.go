package mappers

import (
	"strconv"

	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/cutekitek/challenge-console/internal/repository/models"
)

const (
	NoOutputText        = "Code executed successfully (no output)"
	EmptyExecuteText    = "Please enter some code to execute."
	EmptySubmitText     = "Please enter your solution code before submitting."
	SubmissionFailed    = "Submission failed"
	IncorrectText       = "Incorrect solution. Please try again."
	SubmissionIssueText = "There was an issue with your submission."
	networkErrorPrefix  = "Network error: "
)

// NetworkError formats a transport failure for display.
func NetworkError(err error) string {
	return networkErrorPrefix + err.Error()
}

func EmptyCode(message string) dto.DisplayResult {
	return dto.DisplayResult{
		State:        dto.StateWarning,
		Notification: &dto.Notification{Level: dto.LevelWarning, Message: message},
	}
}

// ExecutionFailed is the result of an execution request that never completed.
func ExecutionFailed(err error) dto.DisplayResult {
	return dto.DisplayResult{State: dto.StateError, Text: NetworkError(err)}
}

// ExecutionToDisplay maps an execution response. An error field wins over
// output; output alone is shown verbatim.
func ExecutionToDisplay(resp *models.ExecutionResponse) dto.DisplayResult {
	switch {
	case resp.Error != "":
		text := "Error:\n" + resp.Error
		if resp.Output != "" {
			text = "Output:\n" + resp.Output + "\n\n" + text
		}
		return dto.DisplayResult{State: dto.StateError, Text: text}
	case resp.Output != "":
		return dto.DisplayResult{State: dto.StateSuccess, Text: resp.Output}
	default:
		return dto.DisplayResult{State: dto.StateSuccess, Text: NoOutputText}
	}
}

// SubmissionFailedToSend covers transport failures of a submission. Only a
// banner is raised, the panel keeps its previous content.
func SubmissionFailedToSend(err error) dto.DisplayResult {
	return dto.DisplayResult{
		State:        dto.StateError,
		Notification: &dto.Notification{Level: dto.LevelDanger, Message: NetworkError(err)},
	}
}

// SubmissionRejected covers non-2xx replies of the submission endpoint.
func SubmissionRejected(serverMessage string) dto.DisplayResult {
	if serverMessage == "" {
		serverMessage = SubmissionFailed
	}
	return dto.DisplayResult{
		State:        dto.StateError,
		Notification: &dto.Notification{Level: dto.LevelDanger, Message: serverMessage},
	}
}

// SubmissionToDisplay maps a 2xx submission response. Reload is not set
// here, scheduling belongs to the caller.
func SubmissionToDisplay(resp *models.SubmissionResponse) dto.DisplayResult {
	var (
		message string
		level   dto.Level
		state   dto.State
	)
	switch resp.Status {
	case models.SubmissionStatusCorrect:
		message = "Correct! You earned " + FormatPoints(resp.PointsEarned) + " points!"
		level = dto.LevelSuccess
		state = dto.StateSuccess
	case models.SubmissionStatusIncorrect:
		message = IncorrectText
		level = dto.LevelWarning
		state = dto.StateError
	default:
		message = SubmissionIssueText
		level = dto.LevelWarning
		state = dto.StateError
	}

	text := "Submission Result:\n" + message + "\n\n"
	if resp.Output != "" {
		text += "Your Output:\n" + resp.Output
	}
	if resp.Error != "" {
		text += "\n\nError:\n" + resp.Error
	}

	return dto.DisplayResult{
		State:        state,
		Text:         text,
		Notification: &dto.Notification{Level: level, Message: message},
	}
}

// SubmissionToAttempt builds the record published alongside a verdict.
func SubmissionToAttempt(challengeId int64, httpStatus int, resp *models.SubmissionResponse) *models.Attempt {
	attempt := &models.Attempt{ChallengeId: challengeId, HTTPStatus: httpStatus}
	if resp != nil {
		attempt.Status = resp.Status
		attempt.PointsEarned = resp.PointsEarned
	}
	return attempt
}

// FormatPoints renders a score the way the page does: integers without a
// fractional part, other values with the shortest exact representation.
func FormatPoints(points float64) string {
	return strconv.FormatFloat(points, 'f', -1, 64)
}
