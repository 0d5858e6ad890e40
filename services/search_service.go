package services

import (
	"context"
	"sort"
	"strings"

	"edubridge_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SearchPolicy configures the discovery behavior that differs between
// deployments.
type SearchPolicy struct {
	// RequireQuery rejects empty queries instead of serving the featured set.
	RequireQuery bool
	// SearchLimit caps query results; FeaturedLimit caps the default set.
	SearchLimit   int
	FeaturedLimit int
}

// SearchService returns role-scoped, connection-annotated candidate lists.
type SearchService struct {
	Dynamo        Store
	RequestPolicy models.RequestPolicy
	Policy        SearchPolicy
}

// Search finds active profiles of the requester's target category matching
// the query. An empty query either fails (RequireQuery) or returns the
// newest profiles capped at FeaturedLimit. Every result carries the
// requestSent/requestReceived/isConnected annotations for the requester.
func (s *SearchService) Search(ctx context.Context, requesterID, query string) ([]models.SearchResult, error) {
	requester, err := getUserByID(ctx, s.Dynamo, requesterID)
	if err != nil {
		return nil, err
	}
	if !s.RequestPolicy.CanSearch(requester.Student) {
		return nil, ErrSearchForbidden
	}

	query = strings.TrimSpace(query)
	if query == "" && s.Policy.RequireQuery {
		return nil, ErrQueryRequired
	}

	target := requester.Student.SearchTarget()
	var candidates []models.User
	err = s.Dynamo.ScanWithFilter(ctx, models.UsersTable, func(item map[string]types.AttributeValue) bool {
		if attrString(item, "userId") == requesterID {
			return false
		}
		if attrString(item, "student") != string(target) {
			return false
		}
		active, ok := item["isActive"].(*types.AttributeValueMemberBOOL)
		return ok && active.Value
	}, &candidates)
	if err != nil {
		return nil, err
	}

	limit := s.Policy.SearchLimit
	if query == "" {
		// Featured set: newest profiles first.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].CreatedAt > candidates[j].CreatedAt
		})
		limit = s.Policy.FeaturedLimit
	} else {
		matched := candidates[:0]
		for _, candidate := range candidates {
			if matchesQuery(&candidate, query) {
				matched = append(matched, candidate)
			}
		}
		candidates = matched
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]models.SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		pending, err := findPendingRequest(ctx, s.Dynamo, requesterID, candidate.UserID)
		if err != nil {
			return nil, err
		}
		results = append(results, models.SearchResult{
			PublicProfile:   candidate.Public(),
			RequestSent:     pending != nil && pending.SenderID == requesterID,
			RequestReceived: pending != nil && pending.ReceiverID == requesterID,
			IsConnected:     requester.IsConnectedTo(candidate.UserID),
		})
	}
	return results, nil
}

// matchesQuery does a case-insensitive substring match over the candidate's
// searchable fields.
func matchesQuery(user *models.User, query string) bool {
	query = strings.ToLower(query)
	for _, field := range []string{user.Name, user.College, user.Degree, user.FieldOfStudy, user.School} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	for _, list := range [][]string{user.Interests, user.Goals} {
		for _, entry := range list {
			if strings.Contains(strings.ToLower(entry), query) {
				return true
			}
		}
	}
	return false
}

func attrString(item map[string]types.AttributeValue, name string) string {
	if attr, ok := item[name].(*types.AttributeValueMemberS); ok {
		return attr.Value
	}
	return ""
}
