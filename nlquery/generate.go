package nlquery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mcastillo/saberpro_db/nlquery/prompts"
)

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// GenerateSQL builds SQL for common question shapes without calling the API.
// It covers score averages (optionally per year or per stratum) and simple
// counts; anything else needs the model.
func GenerateSQL(question string) (string, error) {
	q := strings.ToLower(question)

	var yearFilter string
	if m := yearPattern.FindString(q); m != "" {
		yearFilter = " AND year = " + m
	}

	if score, ok := prompts.MatchScore(q); ok {
		switch {
		case strings.Contains(q, "stratum") || strings.Contains(q, "estrato"):
			return fmt.Sprintf(`SELECT fami_estratovivienda, AVG(%[1]s) AS average
FROM saber_pro
WHERE fami_estratovivienda IS NOT NULL AND %[1]s IS NOT NULL%[2]s
GROUP BY fami_estratovivienda
ORDER BY fami_estratovivienda;`, score, yearFilter), nil
		case strings.Contains(q, "gender"):
			return fmt.Sprintf(`SELECT estu_genero, AVG(%[1]s) AS average
FROM saber_pro
WHERE estu_genero IS NOT NULL AND %[1]s IS NOT NULL%[2]s
GROUP BY estu_genero;`, score, yearFilter), nil
		case strings.Contains(q, "year") || strings.Contains(q, "trend"):
			return fmt.Sprintf(`SELECT year, AVG(%[1]s) AS average
FROM saber_pro
WHERE year IS NOT NULL AND %[1]s IS NOT NULL
GROUP BY year
ORDER BY year;`, score), nil
		default:
			return fmt.Sprintf(`SELECT AVG(%[1]s) AS average, COUNT(*) AS n
FROM saber_pro
WHERE %[1]s IS NOT NULL%[2]s;`, score, yearFilter), nil
		}
	}

	if strings.Contains(q, "how many") || strings.Contains(q, "count") {
		var where []string
		if strings.Contains(q, "women") || strings.Contains(q, "female") {
			where = append(where, "estu_genero = 'F'")
		} else if strings.Contains(q, "men") || strings.Contains(q, "male") {
			where = append(where, "estu_genero = 'M'")
		}
		if yearFilter != "" {
			where = append(where, strings.TrimPrefix(yearFilter, " AND "))
		}
		query := "SELECT COUNT(*) FROM saber_pro"
		if len(where) > 0 {
			query += " WHERE " + strings.Join(where, " AND ")
		}
		return query + ";", nil
	}

	return "", fmt.Errorf("could not generate SQL for question: %s", question)
}
