package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	ledger "todochain/internal/domains/ledger/model"
	ledgerDto "todochain/internal/domains/ledger/model/dto"
	todoDto "todochain/internal/domains/todo/model/dto"
	"todochain/shared/constant"
	gDto "todochain/shared/dto"
)

const requestTimeout = 15 * time.Second

// APIError is a non-2xx answer from the ledger API.
type APIError struct {
	Status  int
	Message string
	Code    uint32
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (status %d, program error %d)", e.Message, e.Status, e.Code)
	}

	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type envelope[T any] struct {
	Data    *T     `json:"data"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    uint32 `json:"code"`
}

// Client talks to the ledger HTTP API.
type Client struct {
	baseURL string
	token   string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, token, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) SubmitTransaction(ctx context.Context, tx ledger.Transaction) (ledgerDto.ReceiptResponse, error) {
	var req ledgerDto.TransactionRequest
	req.FromModel(tx)

	return do[ledgerDto.ReceiptResponse](ctx, c, http.MethodPost, "/v1/transactions", req)
}

func (c *Client) Airdrop(ctx context.Context, pubkey ledger.Pubkey, lamports uint64) (ledgerDto.ReceiptResponse, error) {
	return do[ledgerDto.ReceiptResponse](ctx, c, http.MethodPost, "/v1/accounts/"+pubkey.String()+"/airdrop", ledgerDto.AirdropRequest{Lamports: lamports})
}

func (c *Client) GetClock(ctx context.Context) (ledgerDto.ClockResponse, error) {
	return do[ledgerDto.ClockResponse](ctx, c, http.MethodGet, "/v1/clock", nil)
}

func (c *Client) GetAccount(ctx context.Context, pubkey ledger.Pubkey) (ledgerDto.AccountResponse, error) {
	return do[ledgerDto.AccountResponse](ctx, c, http.MethodGet, "/v1/accounts/"+pubkey.String(), nil)
}

// GetAccounts pages through the accounts owned by program, richest first.
func (c *Client) GetAccounts(ctx context.Context, program ledger.Pubkey, minLamports uint64, page, limit int) (ledgerDto.GetAccountsResponse, error) {
	query := url.Values{
		constant.RequestParamOwner:   {program.String()},
		constant.RequestParamPage:    {strconv.Itoa(page)},
		constant.RequestParamLimit:   {strconv.Itoa(limit)},
		constant.RequestParamSortBy:  {ledger.FieldLamports},
		constant.RequestParamSortDir: {gDto.SortDirDesc},
	}

	if minLamports > 0 {
		query.Set(constant.RequestParamMinLamports, strconv.FormatUint(minLamports, 10))
	}

	return do[ledgerDto.GetAccountsResponse](ctx, c, http.MethodGet, "/v1/accounts?"+query.Encode(), nil)
}

func (c *Client) GetTodos(ctx context.Context, account ledger.Pubkey, done *bool) (todoDto.GetTodosResponse, error) {
	path := "/v1/accounts/" + account.String() + "/todos"
	if done != nil {
		path += "?" + url.Values{"done": {strconv.FormatBool(*done)}}.Encode()
	}

	return do[todoDto.GetTodosResponse](ctx, c, http.MethodGet, path, nil)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to encode request: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	if c.token != "" {
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+c.token)
	}

	if c.apiKey != "" {
		request.Header.Set(constant.RequestHeaderAPIKey, c.apiKey)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	var out envelope[T]
	if err := json.NewDecoder(response.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		message := out.Error
		if message == "" {
			message = out.Message
		}

		return zero, &APIError{Status: response.StatusCode, Message: message, Code: out.Code}
	}

	if out.Data == nil {
		return zero, fmt.Errorf("%s %s: empty response", method, path)
	}

	return *out.Data, nil
}
