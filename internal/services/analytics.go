package services

import (
	"math"
	"sort"
	"time"

	"catalog-sync-service/internal/models"
)

// revenueStatuses is the fixed allow-list of order statuses that count
// toward revenue totals. Cancelled, refunded, failed and pending orders
// still appear in the per-status breakdown, just not in the totals.
var revenueStatuses = map[string]bool{
	"completed":  true,
	"processing": true,
	"on-hold":    true,
}

// trendMonths is the length of the trailing monthly trend series
const trendMonths = 12

// topProductLimit caps the ranked product list
const topProductLimit = 10

// BuildAnalytics computes the summary analytics document from the
// normalized order list. An empty list produces a fully-populated
// zero-valued document, never an error.
func BuildAnalytics(orders []models.Order, now time.Time) models.AnalyticsDocument {
	doc := models.AnalyticsDocument{
		SyncVersion:   models.SyncVersion,
		TopProducts:   []models.ProductRevenue{},
		StatusSummary: make(map[string]models.StatusMetrics),
		LastUpdated:   now,
	}

	currentYear, currentMonth, _ := now.Date()

	var totalRevenue, monthRevenue float64
	var totalOrders, monthOrders int

	type productAgg struct {
		id       int
		name     string
		quantity int
		revenue  float64
	}
	productTotals := make(map[int]*productAgg)
	var productOrder []int // first-seen order, ties stay stable

	monthBuckets := make(map[string]*models.MonthlyTrend)

	for _, o := range orders {
		sm := doc.StatusSummary[o.Status]
		sm.Count++
		sm.Revenue = round2(sm.Revenue + o.Total)
		doc.StatusSummary[o.Status] = sm

		if !revenueStatuses[o.Status] {
			continue
		}

		totalOrders++
		totalRevenue += o.Total

		year, month, _ := o.DateCreated.Date()
		if year == currentYear && month == currentMonth {
			monthOrders++
			monthRevenue += o.Total
		}

		key := o.DateCreated.Format("2006-01")
		if bucket, ok := monthBuckets[key]; ok {
			bucket.OrderCount++
			bucket.Revenue += o.Total
		} else {
			monthBuckets[key] = &models.MonthlyTrend{Month: key, OrderCount: 1, Revenue: o.Total}
		}

		for _, li := range o.LineItems {
			agg, ok := productTotals[li.ProductID]
			if !ok {
				agg = &productAgg{id: li.ProductID, name: li.Name}
				productTotals[li.ProductID] = agg
				productOrder = append(productOrder, li.ProductID)
			}
			agg.quantity += li.Quantity
			agg.revenue += li.Total
		}
	}

	doc.Totals = revenueMetrics(totalOrders, totalRevenue)
	doc.CurrentMonth = revenueMetrics(monthOrders, monthRevenue)

	ranked := make([]*productAgg, 0, len(productOrder))
	for _, id := range productOrder {
		ranked = append(ranked, productTotals[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].revenue > ranked[j].revenue
	})
	if len(ranked) > topProductLimit {
		ranked = ranked[:topProductLimit]
	}
	for _, agg := range ranked {
		doc.TopProducts = append(doc.TopProducts, models.ProductRevenue{
			ProductID: agg.id,
			Name:      agg.name,
			Quantity:  agg.quantity,
			Revenue:   round2(agg.revenue),
		})
	}

	// Trailing twelve calendar months, oldest first, zero-filled
	doc.MonthlyTrends = make([]models.MonthlyTrend, 0, trendMonths)
	start := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)
	for i := 0; i < trendMonths; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		trend := models.MonthlyTrend{Month: key}
		if bucket, ok := monthBuckets[key]; ok {
			trend.OrderCount = bucket.OrderCount
			trend.Revenue = round2(bucket.Revenue)
			if bucket.OrderCount > 0 {
				trend.AverageOrderValue = round2(bucket.Revenue / float64(bucket.OrderCount))
			}
		}
		doc.MonthlyTrends = append(doc.MonthlyTrends, trend)
	}

	return doc
}

func revenueMetrics(orders int, revenue float64) models.RevenueMetrics {
	m := models.RevenueMetrics{
		TotalOrders:  orders,
		TotalRevenue: round2(revenue),
	}
	if orders > 0 {
		m.AverageOrderValue = round2(revenue / float64(orders))
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
