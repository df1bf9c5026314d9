// cartctl is a CLI for driving a running storefront server.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	cartctl login -email EMAIL -password PASSWORD
//	cartctl cart
//	cartctl add (-course ID | -lesson ID)
//	cartctl remove -id REFERENCE_ID
//	cartctl clear
//	cartctl wishlist
//	cartctl toggle (-course ID | -lesson ID)
//	cartctl checkout [-items ID,ID] [-all] [-coupon CODE]
//	cartctl orders
//
// Examples:
//
//	cartctl login -email me@example.com -password secret
//	cartctl add -course 64f1c2
//	cartctl checkout -all -coupon SAVE10 -lang ar
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"learnhub-storefront/internal/i18n"
	"learnhub-storefront/internal/prefs"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Global flags (apply to all commands)
var (
	serverURL string
	lang      string
	currency  string
	quiet     bool
	noColor   bool
	verbose   bool
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen, colorYellow = "", "", "", ""
	colorCyan, colorGray, colorBold = "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "login":
		runLogin(args)
	case "logout":
		runSimple("logout", "DELETE", "/session", args)
	case "cart":
		runSimple("cart", "GET", "/cart", args)
	case "add":
		runReference("add", "POST", "/cart", args)
	case "remove":
		runRemove(args)
	case "clear":
		runSimple("clear", "DELETE", "/cart", args)
	case "wishlist":
		runSimple("wishlist", "GET", "/wishlist", args)
	case "toggle":
		runReference("toggle", "POST", "/wishlist/toggle", args)
	case "checkout":
		runCheckout(args)
	case "orders":
		runOrders(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `cartctl - LearnHub storefront client

Usage:
  cartctl <command> [options]

Commands:
  login     Sign in and store the session token on the server
  logout    Forget the session
  cart      Show the cart
  add       Add a course or private lesson to the cart
  remove    Remove an entry from the cart
  clear     Empty the cart
  wishlist  Show the wishlist
  toggle    Add to or remove from the wishlist
  checkout  Select items, optionally apply a coupon, and place the order
  orders    List placed orders

Examples:
  cartctl add -course 64f1c2
  cartctl checkout -all -coupon SAVE10
  cartctl cart -lang ar -currency EGP

Run 'cartctl <command> -h' for command-specific options.
`)
}

// newFlagSet registers the flags every command shares.
func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&serverURL, "server", envOr("STOREFRONT_URL", "http://localhost:8080"), "Storefront server base URL")
	fs.StringVar(&lang, "lang", "", "Display language (en or ar)")
	fs.StringVar(&currency, "currency", "", "Display currency (e.g. USD, EGP)")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - only output the essential value")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&verbose, "v", false, "Verbose - show full request/response")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cartctl %s\n\nOptions:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

func parse(fs *flag.FlagSet, args []string) {
	fs.Parse(args)
	if noColor {
		disableColors()
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func runLogin(args []string) {
	fs := newFlagSet("login", "login -email EMAIL -password PASSWORD [options]")
	var email, password string
	fs.StringVar(&email, "email", "", "Account email (required)")
	fs.StringVar(&password, "password", os.Getenv("LEARNHUB_PASSWORD"), "Account password (or LEARNHUB_PASSWORD)")
	parse(fs, args)

	if email == "" || password == "" {
		fs.Usage()
		os.Exit(1)
	}

	resp, err := doRequest("POST", "/session", map[string]string{"email": email, "password": password})
	if err != nil {
		fatal("Login failed: %v", err)
	}

	user, _ := resp["user"].(map[string]interface{})
	name, _ := user["name"].(string)
	if quiet {
		fmt.Println(name)
		return
	}
	printSuccess("Signed in as %s", name)
}

func runSimple(name, method, path string, args []string) {
	fs := newFlagSet(name, name+" [options]")
	parse(fs, args)

	resp, err := doRequest(method, path, nil)
	if err != nil {
		fatal("%s failed: %v", name, err)
	}
	if resp != nil {
		printCollection(resp)
	}
}

func runReference(name, method, path string, args []string) {
	fs := newFlagSet(name, name+" (-course ID | -lesson ID) [options]")
	var courseID, lessonID string
	fs.StringVar(&courseID, "course", "", "Course ID")
	fs.StringVar(&lessonID, "lesson", "", "Private lesson ID")
	parse(fs, args)

	if (courseID == "") == (lessonID == "") {
		fs.Usage()
		os.Exit(1)
	}

	body := map[string]string{}
	if courseID != "" {
		body["courseId"] = courseID
	} else {
		body["privateLessonId"] = lessonID
	}

	resp, err := doRequest(method, path, body)
	if err != nil {
		fatal("%s failed: %v", name, err)
	}

	if wishlist, ok := resp["wishlist"].(map[string]interface{}); ok {
		printCollection(wishlist)
		return
	}
	printCollection(resp)
}

func runRemove(args []string) {
	fs := newFlagSet("remove", "remove -id REFERENCE_ID [options]")
	var referenceID string
	fs.StringVar(&referenceID, "id", "", "Reference ID of the entry (required)")
	parse(fs, args)

	if referenceID == "" {
		fs.Usage()
		os.Exit(1)
	}

	resp, err := doRequest("DELETE", "/cart/"+url.PathEscape(referenceID), nil)
	if err != nil {
		fatal("Remove failed: %v", err)
	}
	printCollection(resp)
}

func runCheckout(args []string) {
	fs := newFlagSet("checkout", "checkout [-items ID,ID | -all] [-coupon CODE] [options]")
	var items, coupon string
	var all bool
	fs.StringVar(&items, "items", "", "Comma-separated reference IDs to order")
	fs.BoolVar(&all, "all", false, "Order the whole cart")
	fs.StringVar(&coupon, "coupon", "", "Coupon code")
	parse(fs, args)

	// Selection only exists against a loaded cart.
	if _, err := doRequest("GET", "/cart", nil); err != nil {
		fatal("Loading cart failed: %v", err)
	}

	if all || items != "" {
		sel := map[string]interface{}{"all": all}
		if items != "" {
			sel["items"] = strings.Split(items, ",")
		}
		if _, err := doRequest("POST", "/selection", sel); err != nil {
			fatal("Selecting items failed: %v", err)
		}
	}

	if coupon != "" {
		quote, err := doRequest("POST", "/coupon", map[string]string{"couponCode": coupon})
		if err != nil {
			fatal("Applying coupon failed: %v", err)
		}
		printInfo("Discount %v, pay %v", quote["discountDisplay"], quote["finalPriceDisplay"])
	}

	order, err := doRequest("POST", "/checkout", nil)
	if err != nil {
		fatal("Checkout failed: %v", err)
	}

	id, _ := order["id"].(string)
	if quiet {
		fmt.Println(id)
		return
	}
	printSuccess("%v", order["notification"])
	fmt.Printf("  Order: %s%s%s  Total: %s%v%s\n", colorCyan, id, colorReset, colorGreen, order["totalDisplay"], colorReset)
}

func runOrders(args []string) {
	fs := newFlagSet("orders", "orders [options]")
	parse(fs, args)

	resp, err := doRequest("GET", "/orders", nil)
	if err != nil {
		fatal("Listing orders failed: %v", err)
	}

	orders, _ := resp["orders"].([]interface{})
	for _, o := range orders {
		order, ok := o.(map[string]interface{})
		if !ok {
			continue
		}
		if quiet {
			fmt.Println(order["id"])
			continue
		}
		fmt.Printf("  %s%v%s  %v  %s%v%s  %v\n",
			colorCyan, order["id"], colorReset,
			order["status"],
			colorGreen, order["totalDisplay"], colorReset,
			order["createdAt"])
	}
}

// =============================================================================
// HTTP
// =============================================================================

// prefsHeader encodes -lang and -currency as a Storefront-Prefs value.
func prefsHeader() (string, error) {
	if lang == "" && currency == "" {
		return "", nil
	}
	var p prefs.Prefs
	if lang != "" {
		locale, ok := i18n.Parse(lang)
		if !ok {
			return "", fmt.Errorf("unsupported language %q", lang)
		}
		p.Locale = locale
	}
	p.Currency = strings.ToUpper(currency)
	return prefs.FormatHeader(p)
}

func doRequest(method, path string, body interface{}) (map[string]interface{}, error) {
	var reqBody io.Reader
	var reqJSON []byte

	if body != nil {
		var err error
		reqJSON, err = json.MarshalIndent(body, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(reqJSON)
	}

	req, err := http.NewRequest(method, strings.TrimSuffix(serverURL, "/")+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	header, err := prefsHeader()
	if err != nil {
		return nil, err
	}
	if header != "" {
		req.Header.Set(prefs.Header, header)
	}

	if verbose {
		printRequest(method, path, reqJSON)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if verbose {
		printResponse(resp.StatusCode, respBody, duration)
	}

	if resp.StatusCode >= 400 {
		return nil, responseError(resp.StatusCode, respBody)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return result, nil
}

// responseError prefers the server's localized notification.
func responseError(status int, body []byte) error {
	var resp struct {
		Error struct {
			Code         string `json:"code"`
			Message      string `json:"message"`
			Notification string `json:"notification"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error.Code == "" {
		return fmt.Errorf("HTTP %d: %s", status, string(body))
	}
	if resp.Error.Notification != "" {
		return fmt.Errorf("%s (%s)", resp.Error.Notification, resp.Error.Code)
	}
	return fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Message)
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printCollection(view map[string]interface{}) {
	items, _ := view["items"].([]interface{})

	if quiet {
		for _, it := range items {
			if item, ok := it.(map[string]interface{}); ok {
				fmt.Println(item["referenceId"])
			}
		}
		return
	}

	if n, ok := view["notification"].(string); ok && n != "" {
		printSuccess("%s", n)
	}

	for _, it := range items {
		item, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		mark := " "
		if selected, _ := item["selected"].(bool); selected {
			mark = "*"
		}
		fmt.Printf("  %s %s%v%s  %v  %s%v%s\n",
			mark,
			colorCyan, item["referenceId"], colorReset,
			item["title"],
			colorGray, item["priceDisplay"], colorReset)
	}
	fmt.Printf("  %sTotal:%s %s%v%s (%d items)\n", colorBold, colorReset, colorGreen, view["totalDisplay"], colorReset, len(items))
}

func printRequest(method, path string, body []byte) {
	fmt.Printf("\n%s▶ REQUEST%s %s%s %s%s\n", colorYellow, colorReset, colorBold, method, path, colorReset)
	if body != nil {
		printJSON(body, "  ")
	}
}

func printResponse(status int, body []byte, duration time.Duration) {
	statusColor := colorGreen
	if status >= 400 {
		statusColor = colorRed
	}
	fmt.Printf("\n%s◀ RESPONSE%s %s%d%s (%v)\n", colorCyan, colorReset, statusColor, status, colorReset, duration)
	printJSON(body, "  ")
}

func printJSON(data []byte, prefix string) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, prefix, "  "); err != nil {
		fmt.Printf("%s%s\n", prefix, string(data))
		return
	}
	fmt.Println(pretty.String())
}

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s→ %s%s\n", colorGray, fmt.Sprintf(format, args...), colorReset)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}
