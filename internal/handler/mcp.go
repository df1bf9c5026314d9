// MCP transport handler for the storefront using the official MCP Go SDK.
// Exposes cart, wishlist and checkout operations as MCP tools.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"learnhub-storefront/internal/i18n"
	"learnhub-storefront/internal/model"
)

// === MCP Tool Input Types ===

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// ReferenceInput names one course or private lesson.
type ReferenceInput struct {
	CourseID        string `json:"courseId,omitempty" jsonschema:"course ID; set exactly one of courseId and privateLessonId"`
	PrivateLessonID string `json:"privateLessonId,omitempty" jsonschema:"private lesson ID; set exactly one of courseId and privateLessonId"`
}

func (in ReferenceInput) reference() model.Reference {
	return model.Reference{CourseID: in.CourseID, PrivateLessonID: in.PrivateLessonID}
}

// RemoveInput is the input of remove_from_cart.
type RemoveInput struct {
	ReferenceID string `json:"referenceId" jsonschema:"reference ID of the entry to remove"`
}

// CheckoutInput is the input of checkout. When Items is set it replaces the
// selection first; otherwise the current selection is ordered.
type CheckoutInput struct {
	Items      []string `json:"items,omitempty" jsonschema:"reference IDs from the cart to order"`
	CouponCode string   `json:"couponCode,omitempty" jsonschema:"coupon code to apply"`
}

// NewMCPServer creates an MCP server with storefront tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "learnhub-storefront",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "LearnHub storefront - cart, wishlist and checkout for courses and private lessons. " +
				"Load the cart before removing or checking out so reference IDs are current.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cart",
		Description: "Fetch the cart with normalized items and total.",
	}, h.mcpGetCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a course or private lesson to the cart. Returns the refreshed cart.",
	}, h.mcpAddToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_from_cart",
		Description: "Remove every cart entry for a reference ID.",
	}, h.mcpRemoveFromCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_cart",
		Description: "Remove all items from the cart.",
	}, h.mcpClearCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_wishlist",
		Description: "Fetch the wishlist.",
	}, h.mcpGetWishlist)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_wishlist",
		Description: "Add a course or private lesson to the wishlist, or remove it when already present.",
	}, h.mcpToggleWishlist)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkout",
		Description: "Place an order for the selected cart items, optionally with a coupon.",
	}, h.mcpCheckout)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_orders",
		Description: "List the user's placed orders.",
	}, h.mcpListOrders)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpGetCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, CollectionView, error) {
	snap, err := h.svc.LoadCart(ctx)
	if err != nil {
		return nil, CollectionView{}, h.mcpError(ctx, err)
	}
	return nil, collectionView(h.formatter(ctx), snap, h.svc.Selected()), nil
}

func (h *Handler) mcpAddToCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ReferenceInput,
) (*mcp.CallToolResult, CollectionView, error) {
	snap, err := h.svc.AddToCart(ctx, input.reference())
	if err != nil {
		return nil, CollectionView{}, h.mcpError(ctx, err)
	}

	view := collectionView(h.formatter(ctx), snap, h.svc.Selected())
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.AddedToCart)
	return nil, view, nil
}

func (h *Handler) mcpRemoveFromCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RemoveInput,
) (*mcp.CallToolResult, CollectionView, error) {
	snap, err := h.svc.RemoveFromCart(ctx, input.ReferenceID)
	if err != nil {
		return nil, CollectionView{}, h.mcpError(ctx, err)
	}

	view := collectionView(h.formatter(ctx), snap, h.svc.Selected())
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.RemovedFromCart)
	return nil, view, nil
}

func (h *Handler) mcpClearCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, CollectionView, error) {
	snap, err := h.svc.ClearCart(ctx)
	if err != nil {
		return nil, CollectionView{}, h.mcpError(ctx, err)
	}

	view := collectionView(h.formatter(ctx), snap, nil)
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.CartCleared)
	return nil, view, nil
}

func (h *Handler) mcpGetWishlist(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, CollectionView, error) {
	snap, err := h.svc.LoadWishlist(ctx)
	if err != nil {
		return nil, CollectionView{}, h.mcpError(ctx, err)
	}
	return nil, collectionView(h.formatter(ctx), snap, nil), nil
}

func (h *Handler) mcpToggleWishlist(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ReferenceInput,
) (*mcp.CallToolResult, ToggleView, error) {
	added, snap, err := h.svc.ToggleWishlist(ctx, input.reference())
	if err != nil {
		return nil, ToggleView{}, h.mcpError(ctx, err)
	}

	key := i18n.RemovedFromWishlist
	if added {
		key = i18n.AddedToWishlist
	}
	view := ToggleView{Added: added, Wishlist: collectionView(h.formatter(ctx), snap, nil)}
	view.Wishlist.Notification = i18n.Text(h.prefs(ctx).Locale, key)
	return nil, view, nil
}

func (h *Handler) mcpCheckout(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CheckoutInput,
) (*mcp.CallToolResult, OrderView, error) {
	if len(input.Items) > 0 {
		if _, err := h.svc.SetSelection(ctx, input.Items); err != nil {
			return nil, OrderView{}, h.mcpError(ctx, err)
		}
	}

	order, err := h.svc.Checkout(ctx, input.CouponCode)
	if err != nil {
		return nil, OrderView{}, h.mcpError(ctx, err)
	}

	view := orderView(h.formatter(ctx), order)
	view.Notification = i18n.Text(h.prefs(ctx).Locale, i18n.OrderPlaced)
	return nil, view, nil
}

func (h *Handler) mcpListOrders(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, OrdersView, error) {
	orders, err := h.svc.ListOrders(ctx)
	if err != nil {
		return nil, OrdersView{}, h.mcpError(ctx, err)
	}
	return nil, ordersView(h.formatter(ctx), orders), nil
}

// mcpError converts service errors to MCP-friendly errors carrying the
// localized notification.
func (h *Handler) mcpError(ctx context.Context, err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s (%s)", apiErr.Code, apiErr.Message, i18n.Describe(h.prefs(ctx).Locale, err))
	}
	// Don't leak internal error details
	apiErr = h.toAPIError(ctx, err)
	return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
}
