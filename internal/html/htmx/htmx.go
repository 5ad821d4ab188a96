package htmx

import (
	"fmt"

	g "maragu.dev/gomponents"
	ghtmx "maragu.dev/gomponents-htmx"
	gh "maragu.dev/gomponents/html"

	"github.com/liondandelion/magma/internal/gost89"
	mc "github.com/liondandelion/magma/internal/html/components"
)

func Error(id, message string) g.Node {
	return gh.Div(gh.ID(id), g.Text(message))
}

func FormOTP(postTo string) g.Node {
	return g.Group{
		gh.Form(gh.ID("otpForm"), ghtmx.Post(postTo), ghtmx.Target("#serverResponse"), ghtmx.Swap("outerHTML"),
			gh.Label(gh.For("otpCode"), g.Text("OTP code: ")),
			gh.Input(gh.Type("text"), gh.Name("otpCode"), gh.ID("otpCode"), gh.Required(), gh.AutoFocus(),
				mc.Hyperscript(`
					on load put '' into me
				`),
			),
			gh.Button(gh.Type("submit"),
				mc.Hyperscript(`
					on click wait 100ms then set value of #otpCode to ''
				`),
				g.Text("Send"),
			),
		),
		gh.Div(gh.ID("serverResponse")),
	}
}

func CipherResult(dir gost89.Direction, in, out uint64) g.Node {
	return gh.Div(gh.ID("cipherResult"),
		gh.P(g.Text(fmt.Sprintf("%v of %016X:", dir, in))),
		gh.Pre(g.Text(fmt.Sprintf("%016X", out))),
	)
}
