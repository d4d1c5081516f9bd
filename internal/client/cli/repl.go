package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophshop/internal/client/session"
	"github.com/dmitrijs2005/gophshop/internal/client/transport"
)

type access int

const (
	anyone access = iota
	member
	admin
)

// errUsage makes the REPL print the command's usage line.
var errUsage = errors.New("wrong arguments")

type command struct {
	name   string
	usage  string
	help   string
	access access
	run    func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{"login", "login", "sign in", anyone, (*App).Login},
	{"register", "register", "create an account and sign in", anyone, (*App).Register},
	{"products", "products", "list products", anyone, (*App).Products},
	{"filter", "filter name=value ... | filter clear", "filter products (search, category_id, min_price, max_price, in_stock, include_inactive)", anyone, (*App).Filter},
	{"page", "page N", "go to a page of the current list", anyone, (*App).Page},
	{"next", "next", "next page", anyone, (*App).Next},
	{"prev", "prev", "previous page", anyone, (*App).Prev},
	{"refresh", "refresh", "reload the current list", anyone, (*App).Refresh},
	{"categories", "categories", "list categories", anyone, (*App).Categories},
	{"product", "product ID", "show one product", anyone, (*App).Product},
	{"reviews", "reviews PRODUCT_ID", "show reviews of a product", anyone, (*App).Reviews},

	{"whoami", "whoami", "show the signed-in account", member, (*App).Whoami},
	{"logout", "logout", "sign out", member, (*App).Logout},
	{"cart", "cart", "show the cart", member, (*App).Cart},
	{"add", "add PRODUCT_ID [QTY]", "add a product to the cart", member, (*App).Add},
	{"remove", "remove ITEM_ID", "remove an item from the cart", member, (*App).Remove},
	{"checkout", "checkout", "place an order for the cart", member, (*App).Checkout},
	{"orders", "orders", "list your orders", member, (*App).Orders},
	{"review", "review PRODUCT_ID RATING [COMMENT]", "rate a product from 1 to 5", member, (*App).Review},

	{"users", "users", "list accounts", admin, (*App).Users},
	{"status", "status ORDER_ID STATUS", "change an order status", admin, (*App).SetOrderStatus},
	{"newcategory", "newcategory", "create a category", admin, (*App).NewCategory},
	{"newproduct", "newproduct", "create a product", admin, (*App).NewProduct},
	{"delproduct", "delproduct ID", "delete a product", admin, (*App).DeleteProduct},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// runREPL reads commands from a.reader until EOF, "exit" or "quit".
// The prompt shows the signed-in account. Handler errors are reported to
// the user and never end the loop.
func runREPL(ctx context.Context, a *App) {
	for {
		a.printer.Prompt(fmt.Sprintf("shop%s> ", a.status()))

		line, err := a.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			a.printer.Print("")
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch name := parts[0]; name {
		case "exit", "quit":
			a.printer.Print("Bye!")
			return
		case "help":
			a.help()
		default:
			c, ok := lookup(name)
			if !ok {
				a.printer.Error("Unknown command: %s", name)
				continue
			}
			a.exec(ctx, c, parts[1:])
			a.afterCommand()
		}
	}
}

func (a *App) help() {
	level := anyone
	if a.isLoggedIn() {
		level = member
	}
	if a.isAdmin() {
		level = admin
	}

	rows := make([][]string, 0, len(commands))
	for _, c := range commands {
		if c.access <= level {
			rows = append(rows, []string{c.usage, c.help})
		}
	}
	rows = append(rows, []string{"exit", "leave"})
	a.printer.Table([]string{"command", "description"}, rows)
}

func (a *App) exec(ctx context.Context, c command, args []string) {
	switch c.access {
	case member:
		if !a.isLoggedIn() {
			a.printer.Warning("Please log in first (type 'login').")
			return
		}
	case admin:
		if !a.isAdmin() {
			a.printer.Error("Access denied: administrators only.")
			return
		}
	}

	if err := c.run(a, ctx, args); err != nil {
		if errors.Is(err, errUsage) {
			a.printer.Print("Usage: %s", c.usage)
			return
		}
		a.report(err)
	}
}

// report turns an error into a message for the user.
func (a *App) report(err error) {
	a.logger.Debug(context.Background(), "command failed", "error", err)

	var apiErr *transport.APIError
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		a.printer.Error("Incorrect email or password.")
	case errors.Is(err, session.ErrAutoLoginFailed):
		a.printer.Error("Account created, but signing in failed: %s", transport.UserMessage(err))
	case errors.Is(err, transport.ErrUnauthorized):
		// The rejection hook has already told the user.
	case errors.Is(err, transport.ErrTransport):
		a.printer.Error("Server unreachable. Please try again later.")
	case errors.As(err, &apiErr):
		a.printer.Error("%s", transport.UserMessage(err))
	default:
		a.printer.Error("%s", err.Error())
	}
}
