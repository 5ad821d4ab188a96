package pages

import (
	"strconv"

	g "maragu.dev/gomponents"
	ghtmx "maragu.dev/gomponents-htmx"
	gc "maragu.dev/gomponents/components"
	gh "maragu.dev/gomponents/html"

	mdb "github.com/liondandelion/magma/internal/db"
	mc "github.com/liondandelion/magma/internal/html/components"
	mhtmx "github.com/liondandelion/magma/internal/html/htmx"
)

type PageProperties struct {
	Title       string
	Description string
}

func page(props PageProperties, userSession mdb.UserSessionData, children ...g.Node) g.Node {
	return gc.HTML5(
		gc.HTML5Props{
			Title:       props.Title,
			Description: props.Description,
			Language:    "en",
			Head: []g.Node{
				gh.Link(gh.Rel("stylesheet"), gh.Type("text/css"), gh.Href("/assets/css/style.css")),
				gh.Script(gh.Src("/assets/js/third_party/htmx.js")),
				gh.Script(gh.Src("/assets/js/third_party/_hyperscript.js")),
			},
			Body: []g.Node{
				mc.Navbar(userSession.Username, userSession.IsAuthenticated, userSession.IsAdmin),
				gh.Main(gh.Class("grid-main fullsize"), g.Group(children)),
			},
		},
	)
}

func Index(userSession mdb.UserSessionData, sboxNames []string) g.Node {
	return page(
		PageProperties{Title: "Magma", Description: "GOST 28147-89 block cipher"},
		userSession,
		g.Group{
			gh.H1(g.Text("GOST 28147-89")),
			gh.P(g.Text("Encrypt or decrypt a single 64-bit block. Every block is independent: there is no chaining and no padding.")),
			mc.CipherForm(sboxNames),
		},
	)
}

func SBoxes(userSession mdb.UserSessionData, records []mdb.SBoxRecord) g.Node {
	return page(
		PageProperties{Title: "S-boxes"},
		userSession,
		g.Group{
			gh.H1(g.Text("Substitution tables")),
			g.If(len(records) == 0, gh.P(g.Text("No tables stored yet, the default parameter set is used."))),
			g.Map(records, mc.SBoxTable),
		},
	)
}

func Register(userSession mdb.UserSessionData) g.Node {
	return page(
		PageProperties{Title: "Register"},
		userSession,
		g.Group{
			gh.Form(gh.ID("registerForm"), gh.Class("form"),
				gh.Div(gh.Class("form"),
					gh.Label(gh.For("username"), g.Text("Enter your username: ")),
					gh.Input(gh.Type("text"), gh.Name("username"), gh.Required()),
				),
				gh.Div(gh.Class("form"),
					gh.Label(gh.For("password"), g.Text("Enter your password: ")),
					gh.Input(gh.Type("password"), gh.Name("password"), gh.Required()),
				),
				gh.Div(gh.Class("form"),
					gh.Label(gh.For("confirm"), g.Text("Confirm password: ")),
					gh.Input(gh.Type("password"), gh.Name("confirm"), gh.Required()),
				),
				gh.Div(gh.Class("form"),
					gh.Input(gh.Type("submit"), gh.Value("Register"), ghtmx.Post("/register"), ghtmx.Target("#serverResponse"), ghtmx.Swap("outerHTML")),
				),
			),
			gh.Div(gh.ID("serverResponse")),
		},
	)
}

func Login(userSession mdb.UserSessionData) g.Node {
	return page(
		PageProperties{Title: "Login"},
		userSession,
		g.Group{
			gh.Form(gh.ID("loginForm"), gh.Class("form"),
				mc.Hyperscript(`
					on htmx:afterRequest
						if #otpForm is not empty remove me
				`),
				gh.Div(gh.Class("form"),
					gh.Label(gh.For("username"), g.Text("Enter your username: ")),
					gh.Input(gh.Type("text"), gh.Name("username"), gh.Required()),
				),
				gh.Div(gh.Class("form"),
					gh.Label(gh.For("password"), g.Text("Enter your password: ")),
					gh.Input(gh.Type("password"), gh.Name("password"), gh.Required()),
				),
				gh.Div(gh.Class("form"),
					gh.Input(gh.Type("submit"), gh.Value("Login"), ghtmx.Post("/login"), ghtmx.Target("#serverResponse"), ghtmx.Swap("outerHTML")),
				),
			),
			gh.Div(gh.ID("serverResponse")),
		},
	)
}

func User(userSession mdb.UserSessionData) g.Node {
	return page(
		PageProperties{Title: "User"},
		userSession,
		g.Group{
			gh.Nav(
				gh.Ul(
					gh.Li(
						gh.A(gh.Href("/user/password"), g.Text("Change password")),
					),
					g.If(userSession.IsOTPEnabled,
						gh.Li(
							gh.A(gh.Href("/user/otp/disable"), g.Text("Disable OTP")),
						),
					),
					g.If(!userSession.IsOTPEnabled,
						gh.Li(
							gh.A(gh.Href("/user/otp/enable"), g.Text("Enable OTP")),
						),
					),
				),
			),
		},
	)
}

func PasswordChange(userSession mdb.UserSessionData) g.Node {
	return page(
		PageProperties{Title: "Change password"},
		userSession,
		g.Group{
			gh.Form(gh.ID("passwordChangeForm"), gh.Class("form"),
				gh.Div(gh.Class("form"),
					gh.Label(gh.For("oldPassword"), g.Text("Old password: ")),
					gh.Input(gh.Type("password"), gh.Name("oldPassword"), gh.Required()),
				),
				gh.Div(gh.Class("form"),
					gh.Label(gh.For("newPassword"), g.Text("New password: ")),
					gh.Input(gh.Type("password"), gh.Name("newPassword"), gh.Required()),
				),
				gh.Div(gh.Class("form"),
					gh.Label(gh.For("confirm"), g.Text("Confirm new password: ")),
					gh.Input(gh.Type("password"), gh.Name("confirm"), gh.Required()),
				),
				gh.Div(gh.Class("form"),
					gh.Input(gh.Type("submit"), gh.Value("Change"), ghtmx.Post("/user/password"), ghtmx.Target("#serverResponse"), ghtmx.Swap("outerHTML")),
				),
			),
			gh.Div(gh.ID("serverResponse")),
		},
	)
}

func UserTable(userSession mdb.UserSessionData, users []mdb.User) g.Node {
	return page(
		PageProperties{Title: "Users"},
		userSession,
		g.Group{
			gh.Table(
				gh.THead(
					gh.Tr(
						gh.Th(gh.Scope("col"), g.Text("Username")),
						gh.Th(gh.Scope("col"), g.Text("Is admin")),
						gh.Th(gh.Scope("col"), g.Text("Is blocked")),
					),
				),
				gh.TBody(
					g.Map(users, func(user mdb.User) g.Node {
						return gh.Tr(
							gh.Td(g.Text(user.Username)),
							gh.Td(g.Text(strconv.FormatBool(user.IsAdmin))),
							gh.Td(g.Text(strconv.FormatBool(user.IsBlocked))),
						)
					}),
				),
			),
		},
	)
}

func OTPEnable(userSession mdb.UserSessionData, service, username, secret, image string) g.Node {
	return page(
		PageProperties{Title: "Enable OTP"},
		userSession,
		g.Group{
			gh.H1(g.Text("For manual enrollment use this information:")),
			gh.P(g.Text("Service: " + service)),
			gh.P(g.Text("Username: " + username)),
			gh.P(g.Text("Secret: " + secret)),
			g.If(image != "",
				gh.Img(gh.Src("data:image/png;base64, "+image), gh.Style("width: 200px; height: 200px;"), gh.Alt("QR code for OTP enrollment")),
			),
			gh.P(g.Text("After enrollment, please enter the code below")),
			mhtmx.FormOTP("/user/otp/enable"),
		},
	)
}

func OTPDisable(userSession mdb.UserSessionData) g.Node {
	return page(
		PageProperties{Title: "Disable OTP"},
		userSession,
		g.Group{
			mhtmx.FormOTP("/user/otp/disable"),
		},
	)
}
