// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func activationBody(heading, link string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		href := templ.EscapeString(link)
		_, err := io.WriteString(w, "<div><h1>"+templ.EscapeString(heading)+"</h1>"+
			`<a href="`+href+`">`+href+"</a></div>")
		return err
	})
}

func otpBody(heading, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<div><h1>"+templ.EscapeString(heading)+"</h1>"+
			"<div>"+templ.EscapeString(text)+"</div></div>")
		return err
	})
}

func render(ctx context.Context, c templ.Component) (string, error) {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := c.Render(ctx, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
