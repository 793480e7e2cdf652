package email

import (
	"bytes"
	"errors"
	"strings"
	"text/template"
)

// AppSecretSubject is the subject of the email sent to the admin of a new app.
const AppSecretSubject = "Your app '{{.AppID}}' is ready!"

// AppSecretTemplate is the body of the email sent to the admin of a new app.
const AppSecretTemplate = `Hi {{.EmailHandler}},

Here is the secret for your app '{{.AppName}}' ({{.AppID}}):

	{{.Secret}}

Use it to sign the tickets of your app, they are valid for {{.TimeWindow}}.
Keep it safe!
`

// AppEmailData struct includes the data required to fill the app email
// templates.
type AppEmailData struct {
	AppID        string
	AppName      string
	Secret       string
	TimeWindow   string
	EmailHandler string
}

// NewAppEmailData creates a new AppEmailData with the provided data.
func NewAppEmailData(appID, appName, secret, timeWindow, email string) *AppEmailData {
	return &AppEmailData{
		AppID:        appID,
		AppName:      appName,
		Secret:       secret,
		TimeWindow:   timeWindow,
		EmailHandler: emailHandler(email),
	}
}

// ParseTemplate parses the template text provided with the data provided. It
// returns the parsed template as a string. If an error occurs, it returns the
// error.
func ParseTemplate(text string, data any) (string, error) {
	t, err := template.New("email").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.Join(ErrTemplate, err)
	}
	// execute the template to fill it with the data provided
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, data); err != nil {
		return "", errors.Join(ErrTemplate, err)
	}
	return buf.String(), nil
}

// AppSecretEmail composes the email that delivers the secret of an app to
// its admin. It returns ErrInvalidEmail if the recipient is not a valid
// address.
func AppSecretEmail(to string, data *AppEmailData) (*Email, error) {
	to, err := ParseAddress(to)
	if err != nil {
		return nil, err
	}
	subject, err := ParseTemplate(AppSecretSubject, data)
	if err != nil {
		return nil, err
	}
	body, err := ParseTemplate(AppSecretTemplate, data)
	if err != nil {
		return nil, err
	}
	return &Email{To: to, Subject: subject, Body: body}, nil
}

// emailHandler method extracts the email handler from the email address. It
// splits the email address by the "@" symbol and returns the first part.
func emailHandler(emailAddress string) string {
	emailParts := strings.Split(emailAddress, "@")
	return emailParts[0]
}
