package backend

import (
	"context"
	"fmt"
)

// ListQuotes fetches all quotes.
func (c *Client) ListQuotes(ctx context.Context) ([]Quote, error) {
	var quotes []Quote
	if err := c.get(ctx, "/quotes", nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// CreateQuote creates a quote.
func (c *Client) CreateQuote(ctx context.Context, quote Quote) (*Quote, error) {
	var created Quote
	if err := c.post(ctx, "/quotes", quote, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListContracts fetches all contracts.
func (c *Client) ListContracts(ctx context.Context) ([]Contract, error) {
	var contracts []Contract
	if err := c.get(ctx, "/contracts", nil, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// CreateContract creates a contract.
func (c *Client) CreateContract(ctx context.Context, contract Contract) (*Contract, error) {
	var created Contract
	if err := c.post(ctx, "/contracts", contract, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListSafetyCheckItems fetches the safety checklist definition.
func (c *Client) ListSafetyCheckItems(ctx context.Context) ([]SafetyCheckItem, error) {
	var items []SafetyCheckItem
	if err := c.get(ctx, "/safety/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateSafetyCheckRecord submits a completed checklist for a booking.
func (c *Client) CreateSafetyCheckRecord(ctx context.Context, record SafetyCheckRecord) (*SafetyCheckRecord, error) {
	var created SafetyCheckRecord
	if err := c.post(ctx, "/safety/records", record, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListKnowledgeArticles fetches all knowledge base articles.
func (c *Client) ListKnowledgeArticles(ctx context.Context) ([]KnowledgeArticle, error) {
	var articles []KnowledgeArticle
	if err := c.get(ctx, "/articles", nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetKnowledgeArticle fetches one article.
func (c *Client) GetKnowledgeArticle(ctx context.Context, articleID int64) (*KnowledgeArticle, error) {
	var article KnowledgeArticle
	if err := c.get(ctx, fmt.Sprintf("/articles/%d", articleID), nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}
