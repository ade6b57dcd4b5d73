package handlers

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/echenim/batchex/internal/explorer"
	md "github.com/echenim/batchex/internal/models"
	ob "github.com/echenim/batchex/internal/orderbook"
)

const networkKey = "network"

// Network bundles the registry of one chain with its collaborators.
type Network struct {
	ID       uint64
	Registry *ob.Registry
	Balances *ob.MemoryBalances
}

// Exchange serves one registry per network. The default network is mounted
// at the root and every other network under its URL prefix.
type Exchange struct {
	networks       map[uint64]*Network
	defaultNetwork uint64
}

func NewExchange(defaultNetwork uint64, networks ...*Network) (*Exchange, error) {
	ex := &Exchange{
		networks:       make(map[uint64]*Network),
		defaultNetwork: defaultNetwork,
	}
	for _, n := range networks {
		if _, ok := ex.networks[n.ID]; ok {
			return nil, fmt.Errorf("network %d registered twice", n.ID)
		}
		ex.networks[n.ID] = n
	}
	if _, ok := ex.networks[defaultNetwork]; !ok {
		return nil, fmt.Errorf("default network %d has no registry", defaultNetwork)
	}
	return ex, nil
}

// Register mounts the exchange routes on e.
func (ex *Exchange) Register(e *echo.Echo) {
	e.Pre(ex.canonicalPath)
	ex.routes(e.Group("", ex.withNetwork(ex.defaultNetwork)))

	for id := range ex.networks {
		if id == ex.defaultNetwork {
			continue
		}
		ex.routes(e.Group("/"+explorer.RoutePrefix(id), ex.withNetwork(id)))
	}
}

// canonicalPath redirects prefixed paths of the default network to the root.
func (ex *Exchange) canonicalPath(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		prefix, suffix := explorer.SplitPath(req.URL.Path)
		if prefix == "" || explorer.NetworkByPrefix(prefix, 0) != ex.defaultNetwork {
			return next(c)
		}

		target := "/" + suffix
		if req.URL.RawQuery != "" {
			target += "?" + req.URL.RawQuery
		}
		return c.Redirect(http.StatusPermanentRedirect, target)
	}
}

func (ex *Exchange) routes(g *echo.Group) {
	g.GET("/fee-denominator", ex.GetFeeDenominator)
	g.GET("/batch", ex.GetBatch)

	g.GET("/tokens", ex.GetTokens)
	g.GET("/tokens/count", ex.GetNumTokens)
	g.GET("/tokens/id/:address", ex.GetTokenIDByAddress)
	g.GET("/tokens/address/:id", ex.GetTokenAddressByID)
	g.POST("/tokens", ex.AddToken)

	g.GET("/orders/:user", ex.GetOrders)
	g.POST("/orders", ex.PlaceOrder)
	g.POST("/orders/:user/cancel", ex.CancelOrders)

	g.GET("/book/:buy/:sell", ex.GetBook)

	g.GET("/balances/:user/:token", ex.GetBalance)
	g.POST("/balances/deposit", ex.Deposit)
}

func (ex *Exchange) withNetwork(id uint64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			n, ok := ex.networks[id]
			if !ok {
				return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("network %d not served", id))
			}
			c.Set(networkKey, n)
			return next(c)
		}
	}
}

func network(c echo.Context) *Network {
	return c.Get(networkKey).(*Network)
}

// GetFeeDenominator returns the fee denominator of the exchange.
func (ex *Exchange) GetFeeDenominator(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"feeDenominator": network(c).Registry.FeeDenominator()})
}

// GetBatch returns the current batch id.
func (ex *Exchange) GetBatch(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int64{"batchId": network(c).Registry.CurrentBatch()})
}

// GetTokens lists every registered token.
func (ex *Exchange) GetTokens(c echo.Context) error {
	n := network(c)
	tokens := n.Registry.Tokens()

	resp := make([]md.Token, 0, len(tokens))
	for _, t := range tokens {
		resp = append(resp, md.NewToken(n.ID, t.ID, t.Address))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetNumTokens returns the number of registered tokens.
func (ex *Exchange) GetNumTokens(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"numTokens": network(c).Registry.NumTokens()})
}

// GetTokenIDByAddress looks up a token id by its address.
func (ex *Exchange) GetTokenIDByAddress(c echo.Context) error {
	n := network(c)
	addr, err := parseAddress(c.Param("address"))
	if err != nil {
		return err
	}

	id, err := n.Registry.TokenIDByAddress(addr)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, md.NewToken(n.ID, id, addr))
}

// GetTokenAddressByID looks up a token address by its id.
func (ex *Exchange) GetTokenAddressByID(c echo.Context) error {
	n := network(c)
	id, err := parseInt(c.Param("id"), "token id")
	if err != nil {
		return err
	}

	addr, err := n.Registry.TokenAddressByID(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, md.NewToken(n.ID, id, addr))
}

// AddToken registers a new token at the next id.
func (ex *Exchange) AddToken(c echo.Context) error {
	n := network(c)

	var req md.AddTokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	addr, err := parseAddress(req.TokenAddress)
	if err != nil {
		return err
	}

	if err := n.Registry.AddToken(addr); err != nil {
		return err
	}

	id, err := n.Registry.TokenIDByAddress(addr)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, md.NewToken(n.ID, id, addr))
}

// GetOrders returns every order placed by a user, cancelled and expired ones included.
func (ex *Exchange) GetOrders(c echo.Context) error {
	n := network(c)
	user, err := parseAddress(c.Param("user"))
	if err != nil {
		return err
	}

	batch := n.Registry.CurrentBatch()
	orders := n.Registry.Orders(user)
	resp := make([]md.Order, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, md.NewOrder(o, batch))
	}
	return c.JSON(http.StatusOK, resp)
}

// PlaceOrder records a new order for the user and returns its receipt.
func (ex *Exchange) PlaceOrder(c echo.Context) error {
	n := network(c)

	var req md.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	user, err := parseAddress(req.UserAddress)
	if err != nil {
		return err
	}
	if req.BuyAmount == nil || req.SellAmount == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "buyAmount and sellAmount are required")
	}

	receipt, err := n.Registry.PlaceOrder(c.Request().Context(), ob.PlaceOrderParams{
		User:        user,
		BuyTokenID:  req.BuyTokenID,
		SellTokenID: req.SellTokenID,
		ValidUntil:  req.ValidUntil,
		BuyAmount:   (*big.Int)(req.BuyAmount),
		SellAmount:  (*big.Int)(req.SellAmount),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, md.NewReceipt(n.ID, receipt))
}

// CancelOrders cancels the listed orders of a user. Unknown ids are ignored.
func (ex *Exchange) CancelOrders(c echo.Context) error {
	n := network(c)
	user, err := parseAddress(c.Param("user"))
	if err != nil {
		return err
	}

	var req md.CancelOrdersRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	n.Registry.CancelOrders(user, req.OrderIDs)
	return c.NoContent(http.StatusNoContent)
}

// GetBook returns the open orders of a token pair grouped by rate.
func (ex *Exchange) GetBook(c echo.Context) error {
	n := network(c)
	buy, err := parseInt(c.Param("buy"), "buy token id")
	if err != nil {
		return err
	}
	sell, err := parseInt(c.Param("sell"), "sell token id")
	if err != nil {
		return err
	}

	if _, err := n.Registry.TokenAddressByID(buy); err != nil {
		return err
	}
	if _, err := n.Registry.TokenAddressByID(sell); err != nil {
		return err
	}

	batch := n.Registry.CurrentBatch()
	return c.JSON(http.StatusOK, md.NewBookData(buy, sell, batch, n.Registry.OpenBook(buy, sell)))
}

// GetBalance returns a user's balance of one token.
func (ex *Exchange) GetBalance(c echo.Context) error {
	n := network(c)
	user, err := parseAddress(c.Param("user"))
	if err != nil {
		return err
	}
	tokenID, err := parseInt(c.Param("token"), "token id")
	if err != nil {
		return err
	}
	if _, err := n.Registry.TokenAddressByID(tokenID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"balance": n.Balances.Balance(user, tokenID).String()})
}

// Deposit credits a user's balance. It stands in for an on-chain deposit.
func (ex *Exchange) Deposit(c echo.Context) error {
	n := network(c)

	var req md.DepositRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	user, err := parseAddress(req.UserAddress)
	if err != nil {
		return err
	}
	if req.Amount == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "amount is required")
	}
	if _, err := n.Registry.TokenAddressByID(req.TokenID); err != nil {
		return err
	}

	if err := n.Balances.Deposit(user, req.TokenID, (*big.Int)(req.Amount)); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"network": n.ID,
		"user":    user,
		"tokenID": req.TokenID,
	}).Info("deposit")

	return c.JSON(http.StatusOK, map[string]string{"balance": n.Balances.Balance(user, req.TokenID).String()})
}

// parseAddress validates a hex address and returns its checksummed form.
func parseAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid address %q", s))
	}
	return common.HexToAddress(s).Hex(), nil
}

func parseInt(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s %q", what, s))
	}
	return n, nil
}

// HTTPErrorHandler renders registry errors as APIError bodies with a status
// matching the failure.
func HTTPErrorHandler(err error, c echo.Context) {
	status := http.StatusInternalServerError
	msg := err.Error()

	var (
		he   *echo.HTTPError
		nf   *ob.NotFoundError
		dup  *ob.DuplicateTokenError
		full *ob.CapacityError
	)
	switch {
	case errors.As(err, &he):
		status = he.Code
		msg = fmt.Sprint(he.Message)
	case errors.As(err, &nf):
		status = http.StatusNotFound
		msg = nf.Error()
	case errors.As(err, &dup):
		status = http.StatusConflict
	case errors.As(err, &full):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ob.ErrInvalidAmount):
		status = http.StatusBadRequest
	}

	logrus.WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
		"status": status,
	}).WithError(err).Warn("request failed")

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, md.APIError{Error: msg})
	}
	if err != nil {
		logrus.WithError(err).Error("write error response")
	}
}
