package inform

import (
	"github.com/voxscribe/voxgo/internal/pkg/persistence"

	"github.com/spf13/viper"

	"github.com/jordan-wright/email"
	"github.com/pkg/errors"
)

// Data keeps what goes into a transcript email
type Data struct {
	Email      string
	Job        *persistence.Job
	Transcript *persistence.Transcript
}

// EmailMaker prepares an email
type EmailMaker interface {
	Make(data *Data) (*email.Email, error)
}

// EmailSender sends an email
type EmailSender interface {
	Send(email *email.Email) error
}

// SimpleEmailMaker builds the transcript email from config
type SimpleEmailMaker struct {
	c *viper.Viper
}

// NewSimpleEmailMaker creates SimpleEmailMaker instance
func NewSimpleEmailMaker(c *viper.Viper) (*SimpleEmailMaker, error) {
	r := SimpleEmailMaker{c: c}
	_, err := getStringNonNil(c, "smtp.username")
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Make prepares the transcript email
func (maker *SimpleEmailMaker) Make(data *Data) (*email.Email, error) {
	if data.Transcript == nil {
		return nil, errors.New("No transcript")
	}
	r := email.NewEmail()
	r.Subject = "Transcript: " + data.Job.OriginalFilename
	r.Text = []byte(Render(data.Transcript, true))
	r.To = []string{data.Email}
	from := maker.c.GetString("mail.from")
	if from == "" {
		from = maker.c.GetString("smtp.username")
	}
	r.From = from
	return r, nil
}

func getStringNonNil(c *viper.Viper, key string) (string, error) {
	r := c.GetString(key)
	if r == "" {
		return "", errors.New("No setting " + key)
	}
	return r, nil
}
