package server

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/echenim/batchex/internal/config"
	hdl "github.com/echenim/batchex/internal/handlers"
	ob "github.com/echenim/batchex/internal/orderbook"
)

// NewExchange builds one registry per configured network.
func NewExchange(conf *config.Config) (*hdl.Exchange, error) {
	networks := make([]*hdl.Network, 0, len(conf.Networks))
	for _, nc := range conf.Networks {
		var batches ob.BatchSource = ob.NewTimeBatches(conf.BatchDuration)
		if nc.StartBatch > 0 {
			batches = ob.NewManualBatches(nc.StartBatch)
		}

		tokens := make([]string, 0, len(nc.Tokens))
		for _, t := range nc.Tokens {
			addr, err := checksum(t)
			if err != nil {
				return nil, fmt.Errorf("network %d: token: %w", nc.ID, err)
			}
			tokens = append(tokens, addr)
		}

		orders, err := seedOrders(nc.Orders)
		if err != nil {
			return nil, fmt.Errorf("network %d: %w", nc.ID, err)
		}
		seeds, err := seedBalances(nc.Balances)
		if err != nil {
			return nil, fmt.Errorf("network %d: %w", nc.ID, err)
		}
		balances, err := ob.NewMemoryBalancesFrom(seeds)
		if err != nil {
			return nil, fmt.Errorf("network %d: %w", nc.ID, err)
		}

		reg, err := ob.NewRegistry(ob.Options{
			NetworkID: nc.ID,
			MaxTokens: nc.MaxTokens,
			Tokens:    tokens,
			Orders:    orders,
			Batches:   batches,
			Balances:  balances,
		})
		if err != nil {
			return nil, fmt.Errorf("network %d: %w", nc.ID, err)
		}

		logrus.WithFields(logrus.Fields{
			"network":   nc.ID,
			"tokens":    len(tokens),
			"orders":    len(nc.Orders),
			"balances":  len(nc.Balances),
			"maxTokens": nc.MaxTokens,
			"batch":     reg.CurrentBatch(),
		}).Info("serving network")

		networks = append(networks, &hdl.Network{ID: nc.ID, Registry: reg, Balances: balances})
	}

	return hdl.NewExchange(conf.DefaultNetwork, networks...)
}

func seedOrders(confs []config.OrderConfig) (map[string][]ob.Order, error) {
	orders := make(map[string][]ob.Order)
	for i, oc := range confs {
		user, err := checksum(oc.User)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		num, err := parseAmount("price_numerator", oc.PriceNumerator)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		den, err := parseAmount("price_denominator", oc.PriceDenominator)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		var remaining *big.Int
		if oc.RemainingAmount != "" {
			if remaining, err = parseAmount("remaining_amount", oc.RemainingAmount); err != nil {
				return nil, fmt.Errorf("order %d: %w", i, err)
			}
		}

		orders[user] = append(orders[user], ob.Order{
			BuyTokenID:       oc.BuyTokenID,
			SellTokenID:      oc.SellTokenID,
			ValidFrom:        oc.ValidFrom,
			ValidUntil:       oc.ValidUntil,
			PriceNumerator:   num,
			PriceDenominator: den,
			RemainingAmount:  remaining,
		})
	}
	return orders, nil
}

func seedBalances(confs []config.BalanceConfig) ([]ob.Balance, error) {
	out := make([]ob.Balance, 0, len(confs))
	for i, bc := range confs {
		user, err := checksum(bc.User)
		if err != nil {
			return nil, fmt.Errorf("balance %d: %w", i, err)
		}
		amount, err := parseAmount("amount", bc.Amount)
		if err != nil {
			return nil, fmt.Errorf("balance %d: %w", i, err)
		}
		out = append(out, ob.Balance{User: user, TokenID: bc.TokenID, Amount: amount})
	}
	return out, nil
}

func checksum(addr string) (string, error) {
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("invalid address %q", addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}

func parseAmount(field, s string) (*big.Int, error) {
	n, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("%s: invalid amount %q", field, s)
	}
	return n, nil
}

// NewServer returns the echo instance with every exchange route mounted.
func NewServer(ex *hdl.Exchange) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = hdl.HTTPErrorHandler
	e.Use(middleware.Recover())

	ex.Register(e)
	return e
}

// StartServer serves the exchange until ctx is cancelled.
func StartServer(ctx context.Context, conf *config.Config) error {
	ex, err := NewExchange(conf)
	if err != nil {
		return err
	}
	e := NewServer(ex)

	errc := make(chan error, 1)
	go func() {
		logrus.WithField("addr", conf.ListenAddr).Info("exchange listening")
		errc <- e.Start(conf.ListenAddr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
