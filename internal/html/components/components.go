package components

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	g "maragu.dev/gomponents"
	ghtmx "maragu.dev/gomponents-htmx"
	gh "maragu.dev/gomponents/html"

	mdb "github.com/liondandelion/magma/internal/db"
	"github.com/liondandelion/magma/internal/gost89"
)

func Hyperscript(script string) g.Node {
	trimmed := strings.TrimLeftFunc(script, unicode.IsSpace)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	return g.Attr("_", trimmed)
}

func Navbar(username string, isAuthenticated, isAdmin bool) g.Node {
	return gh.Header(
		gh.Nav(gh.Class("navbar"),
			gh.Ul(gh.Class("navbar-left-side"),
				gh.Li(gh.Class("navbar-item"),
					gh.A(gh.Class("button-like"), gh.Href("/"), g.Text("Magma")),
				),
				gh.Li(gh.Class("navbar-item"),
					gh.A(gh.Class("button-like"), gh.Href("/sboxes"), g.Text("S-boxes")),
				),
			),
			gh.Ul(gh.Class("navbar-right-side"),
				g.If(isAuthenticated,
					g.Group{
						gh.Li(gh.Class("navbar-item"),
							gh.A(gh.Class("button-like"), gh.Href("/user"), g.Text(username)),
						),
						g.If(isAdmin,
							gh.Li(gh.Class("navbar-item"),
								gh.A(gh.Class("button-like"), gh.Href("/userstable"), g.Text("Users")),
							),
						),
						gh.Li(gh.Class("navbar-item"),
							gh.A(gh.Class("button-like"), gh.Href("/logout"), g.Text("Logout")),
						),
					},
				),
				g.If(!isAuthenticated,
					g.Group{
						gh.Li(gh.Class("navbar-item"),
							gh.A(gh.Class("button-like"), gh.Href("/register"), g.Text("Register")),
						),
						gh.Li(gh.Class("navbar-item"),
							gh.A(gh.Class("button-like"), gh.Href("/login"), g.Text("Login")),
						),
					},
				),
			),
		),
	)
}

// CipherForm posts a single block to /cipher and swaps the result in below it.
func CipherForm(sboxNames []string) g.Node {
	return g.Group{
		gh.Form(gh.ID("cipherForm"), gh.Class("form"), ghtmx.Post("/cipher"), ghtmx.Target("#cipherResult"), ghtmx.Swap("outerHTML"),
			gh.Div(gh.Class("form"),
				gh.Label(gh.For("block"), g.Text("Block (16 hex digits): ")),
				gh.Input(gh.Type("text"), gh.Name("block"), gh.ID("block"), gh.Required(), g.Attr("pattern", "[0-9a-fA-F]{1,16}")),
			),
			gh.Div(gh.Class("form"),
				gh.Label(gh.For("keys"), g.Text("Round keys (8 hex words, empty for the server key): ")),
				gh.Input(gh.Type("text"), gh.Name("keys"), gh.ID("keys")),
			),
			gh.Div(gh.Class("form"),
				gh.Label(gh.For("sbox"), g.Text("S-box: ")),
				gh.Select(gh.Name("sbox"), gh.ID("sbox"),
					gh.Option(gh.Value(""), g.Text("default")),
					g.Map(sboxNames, func(name string) g.Node {
						return gh.Option(gh.Value(name), g.Text(name))
					}),
				),
			),
			gh.Div(gh.Class("form"),
				gh.Button(gh.Type("submit"), gh.Name("direction"), gh.Value("encrypt"), g.Text("Encrypt")),
				gh.Button(gh.Type("submit"), gh.Name("direction"), gh.Value("decrypt"), g.Text("Decrypt")),
			),
		),
		gh.Div(gh.ID("cipherResult")),
	}
}

func SBoxTable(r mdb.SBoxRecord) g.Node {
	return gh.Article(gh.Class("sbox-card"),
		gh.H2(g.Text(r.Name)),
		gh.P(g.Text(fmt.Sprintf("by %v, %v", r.Author, r.CreatedAt.UTC().Format("2006-01-02 15:04")))),
		SBoxGrid(&r.SBox),
	)
}

func SBoxGrid(s *gost89.SBox) g.Node {
	return gh.Table(gh.Class("sbox"),
		gh.TBody(
			g.Map(s[:], func(row [16]uint8) g.Node {
				return gh.Tr(
					g.Map(row[:], func(v uint8) g.Node {
						return gh.Td(g.Text(strconv.FormatUint(uint64(v), 16)))
					}),
				)
			}),
		),
	)
}
