package cache

import (
	"hash/fnv"
	"strconv"
	"strings"

	"surveybench/pkg/contracts/domain"
)

// Cache keys are "<row fingerprint>|<kind>:<parameters>". The fingerprint
// covers each row's identifying fields, so a changed row collection can
// never serve a stale result even if invalidation is missed.

// RowSetFingerprint hashes the identifying fields of every row in order.
func RowSetFingerprint(rows []domain.SurveyRow) string {
	h := fnv.New64a()
	for _, row := range rows {
		for _, field := range []string{
			row.Specialty(),
			row.SurveySource,
			row.GeographicRegion,
			row.ProviderType,
			row.SurveyYear,
		} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// FilterKey builds the cache key for a filter result.
func FilterKey(fingerprint string, criteria domain.FilterCriteria) string {
	var b strings.Builder
	b.WriteString(fingerprint)
	b.WriteString("|filter:")
	writeField(&b, criteria.Specialty)
	writeField(&b, criteria.SurveySource)
	writeField(&b, criteria.GeographicRegion)
	writeField(&b, criteria.ProviderType)
	writeField(&b, criteria.Year)
	writeField(&b, criteria.DataCategory)
	return b.String()
}

// SummaryKey builds the cache key for an aggregation result over a filtered
// row set.
func SummaryKey(fingerprint string, criteria domain.FilterCriteria, variables []string, groupBy string) string {
	var b strings.Builder
	b.WriteString(FilterKey(fingerprint, criteria))
	b.WriteString("|summary:")
	writeField(&b, groupBy)
	for _, v := range variables {
		writeField(&b, v)
	}
	return b.String()
}

func writeField(b *strings.Builder, field string) {
	b.WriteString(field)
	b.WriteByte(';')
}
