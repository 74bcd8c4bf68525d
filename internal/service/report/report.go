package report

import (
	"context"
	"fmt"
	"sort"

	"dashflow-service/internal/domain/client"
	"dashflow-service/internal/domain/product"
	"dashflow-service/internal/domain/report"
	"dashflow-service/internal/repository/postgres"

	"go.uber.org/zap"
)

const topN = 5

type ReportService struct {
	orderRepo   *postgres.OrderRepository
	clientRepo  *postgres.ClientRepository
	productRepo *postgres.ProductRepository
	logger      *zap.Logger
}

func NewReportService(
	orderRepo *postgres.OrderRepository,
	clientRepo *postgres.ClientRepository,
	productRepo *postgres.ProductRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Build aggregates the reports page from the order snapshots. Revenue comes
// from the totals stored at order time, so later price edits don't rewrite
// history.
func (s *ReportService) Build(ctx context.Context) (*report.Report, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	activeClients, err := s.clientRepo.CountByStatus(ctx, client.StatusActive)
	if err != nil {
		return nil, err
	}
	availableProducts, err := s.productRepo.CountByStatus(ctx, product.StatusAvailable)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		Summary: report.Summary{
			TotalOrders:       int64(len(orders)),
			ActiveClients:     activeClients,
			AvailableProducts: availableProducts,
		},
	}

	unitsByProduct := map[string]float64{}
	spendByClient := map[string]float64{}
	incomeByMonth := map[string]float64{}
	countByStatus := map[string]int64{}

	for _, o := range orders {
		rep.Summary.TotalRevenue += o.Total
		spendByClient[o.ClientName] += o.Total
		incomeByMonth[o.PlacedOn.Format("2006-01")] += o.Total
		countByStatus[o.Status]++
		for _, it := range o.Items {
			unitsByProduct[it.ProductName] += float64(it.Qty)
		}
	}

	rep.TopProducts = rankTop(unitsByProduct, topN)
	rep.TopClients = rankTop(spendByClient, topN)

	for month, total := range incomeByMonth {
		rep.MonthlyIncome = append(rep.MonthlyIncome, report.MonthlyIncome{Month: month, Total: total})
	}
	sort.Slice(rep.MonthlyIncome, func(i, j int) bool {
		return rep.MonthlyIncome[i].Month < rep.MonthlyIncome[j].Month
	})

	for status, count := range countByStatus {
		rep.StatusSummary = append(rep.StatusSummary, report.StatusCount{Status: status, Count: count})
	}
	sort.Slice(rep.StatusSummary, func(i, j int) bool {
		return rep.StatusSummary[i].Status < rep.StatusSummary[j].Status
	})

	return rep, nil
}

func rankTop(values map[string]float64, n int) []report.RankedItem {
	items := make([]report.RankedItem, 0, len(values))
	for name, v := range values {
		items = append(items, report.RankedItem{Name: name, Value: v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Value != items[j].Value {
			return items[i].Value > items[j].Value
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
