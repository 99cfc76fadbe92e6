package codat

import (
	"time"

	"github.com/spaops/ledgersync/internal/domain"
)

type companyRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pageLinks struct {
	Next *struct {
		Href string `json:"href"`
	} `json:"next"`
}

type companiesResponse struct {
	Results []companyRecord `json:"results"`
	Links   pageLinks       `json:"_links"`
}

type connectionRecord struct {
	ID          string `json:"id"`
	PlatformKey string `json:"platformKey"`
	LinkURL     string `json:"linkUrl"`
	Status      string `json:"status"`
}

type connectionsResponse struct {
	Results []connectionRecord `json:"results"`
}

type accountRecord struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Type               string `json:"type"`
	Status             string `json:"status"`
}

type accountsResponse struct {
	Results []accountRecord `json:"results"`
	Links   pageLinks       `json:"_links"`
}

type accountOptionsResponse struct {
	CategoryOptions []struct {
		Value string `json:"value"`
	} `json:"categoryOptions"`
}

type createCompanyRequest struct {
	Name string `json:"name"`
}

type createConnectionRequest struct {
	PlatformKey string `json:"platformKey"`
}

type createAccountRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type pushResponse struct {
	PushOperationKey string `json:"pushOperationKey"`
}

type pushStatusResponse struct {
	Status string `json:"status"`
	Data   *struct {
		ID string `json:"id"`
	} `json:"data"`
	ErrorMessage string `json:"errorMessage"`
}

type journalLinePayload struct {
	Description string  `json:"description"`
	NetAmount   float64 `json:"netAmount"`
	Currency    string  `json:"currency"`
	AccountRef  struct {
		ID string `json:"id"`
	} `json:"accountRef"`
}

type createJournalRequest struct {
	PostedOn     string               `json:"postedOn"`
	JournalLines []journalLinePayload `json:"journalLines"`
}

func (r companyRecord) toDomain() domain.Company {
	return domain.Company{ID: r.ID, Name: r.Name}
}

func (r connectionRecord) toDomain() domain.Connection {
	return domain.Connection{ID: r.ID, PlatformKey: r.PlatformKey, LinkURL: r.LinkURL, Status: r.Status}
}

func (r accountRecord) toDomain() domain.LedgerAccount {
	return domain.LedgerAccount{
		ID:                 r.ID,
		Name:               r.Name,
		FullyQualifiedName: r.FullyQualifiedName,
		Category:           r.Type,
		Status:             r.Status,
	}
}

func toJournalPayload(entry domain.JournalEntry) createJournalRequest {
	req := createJournalRequest{
		PostedOn:     entry.PostingDate.Format(time.DateOnly),
		JournalLines: make([]journalLinePayload, 0, len(entry.Lines)),
	}
	for _, line := range entry.Lines {
		payload := journalLinePayload{
			Description: line.Description,
			// LEDGER expects debits positive; internal lines are credit
			// positive, so the sign flips on the wire.
			NetAmount: -line.Amount,
			Currency:  line.Currency,
		}
		payload.AccountRef.ID = line.AccountID
		req.JournalLines = append(req.JournalLines, payload)
	}
	return req
}
