package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/dispatch"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/report"
	"github.com/noah-isme/sma-admin-console/internal/resources"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/export"
	"github.com/noah-isme/sma-admin-console/pkg/storage"
)

type console struct {
	deps      resources.Deps
	client    *api.Client
	downloads *storage.Downloads
	logger    *zap.Logger
	out       io.Writer
}

const usage = `usage:
  admin-console list <resource>
  admin-console create <resource> field=value ... [photo=@file]
  admin-console update <resource> <id> field=value ... [photo=@file]
  admin-console approve|reject|delete|toggle|set-current <resource> <id>
  admin-console report attendance <year> <month> [csv|xlsx|pdf]
  admin-console report result-sheet [key=value ...]
  admin-console report income-expense [from=.. to=.. format=..]
  admin-console report admit-cards examId=.. classId=.. [rolls=1,2,3]
  admin-console fees collected <year>
  admin-console fees due [classId=..] [section=..]
  admin-console lookups <collection>
  admin-console resources`

func (c *console) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, usage)
		return nil
	}

	switch args[0] {
	case "resources":
		names := make([]string, 0)
		for name := range resources.Registry() {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(c.out, name)
		}
		return nil
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("list requires a resource name")
		}
		return c.list(ctx, args[1])
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("create requires a resource name")
		}
		return c.submit(ctx, args[1], "", args[2:])
	case "update":
		if len(args) < 3 {
			return fmt.Errorf("update requires a resource name and record id")
		}
		return c.submit(ctx, args[1], args[2], args[3:])
	case "approve", "reject", "delete", "toggle", "set-current":
		if len(args) < 3 {
			return fmt.Errorf("%s requires a resource name and record id", args[0])
		}
		return c.action(ctx, dispatch.Action(args[0]), args[1], args[2])
	case "report":
		if len(args) < 2 {
			return fmt.Errorf("report requires a kind")
		}
		return c.report(ctx, args[1], args[2:])
	case "fees":
		if len(args) < 2 {
			return fmt.Errorf("fees requires a sub-command")
		}
		return c.fees(ctx, args[1], args[2:])
	case "lookups":
		if len(args) < 2 {
			return fmt.Errorf("lookups requires a collection name")
		}
		return c.lookups(ctx, args[1])
	default:
		fmt.Fprintln(c.out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (c *console) buildScreen(name string) (*resources.Screen, error) {
	builder, ok := resources.Registry()[name]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", name)
	}
	return builder(c.deps), nil
}

func (c *console) list(ctx context.Context, name string) error {
	scr, err := c.buildScreen(name)
	if err != nil {
		return err
	}
	if scr.Loader == nil {
		return fmt.Errorf("resource %q has no list view", name)
	}
	if err := scr.Loader.Load(ctx); err != nil {
		return err
	}
	c.renderRecords(scr.Columns, scr.Loader.Records())
	return nil
}

func (c *console) submit(ctx context.Context, name, id string, pairs []string) error {
	scr, err := c.buildScreen(name)
	if err != nil {
		return err
	}
	if scr.Form == nil {
		return fmt.Errorf("resource %q has no form", name)
	}

	if id != "" {
		if scr.Loader == nil {
			return fmt.Errorf("resource %q does not support update", name)
		}
		if err := scr.Loader.Load(ctx); err != nil {
			return err
		}
		record, ok := scr.Loader.Find(id)
		if !ok {
			return fmt.Errorf("record %q not found", id)
		}
		scr.Form.Seed(record)
	}

	values, err := parsePairs(pairs)
	if err != nil {
		return err
	}

	// A value of the form @/path/to/file stages that file as the form's
	// upload part instead of a field value.
	for name, value := range values {
		ref, ok := strings.CutPrefix(value, "@")
		if !ok {
			continue
		}
		content, err := os.ReadFile(ref)
		if err != nil {
			return fmt.Errorf("read upload %s: %w", ref, err)
		}
		if err := scr.Form.AttachFile(api.Upload{
			Filename: filepath.Base(ref),
			MIME:     http.DetectContentType(content),
			Content:  content,
		}); err != nil {
			return err
		}
		delete(values, name)
	}
	scr.Form.SetValues(values)

	fieldErrs, err := scr.Form.Submit(ctx)
	if len(fieldErrs) > 0 {
		keys := make([]string, 0, len(fieldErrs))
		for k := range fieldErrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(c.out, "  %s: %s\n", k, fieldErrs[k])
		}
	}
	return err
}

func (c *console) action(ctx context.Context, action dispatch.Action, name, id string) error {
	scr, err := c.buildScreen(name)
	if err != nil {
		return err
	}
	if scr.Dispatcher == nil || !scr.Dispatcher.Supports(action) {
		return fmt.Errorf("resource %q does not support %s", name, action)
	}
	if scr.Loader != nil {
		// Prime the list so the post-action refresh replaces real state.
		if err := scr.Loader.Load(ctx); err != nil {
			return err
		}
	}
	if err := scr.Dispatcher.Dispatch(ctx, action, id); err != nil {
		// A declined confirmation skips the action; it is not a failure.
		var typed *appErrors.Error
		if errors.As(err, &typed) && typed.Code == appErrors.ErrCancelled.Code {
			fmt.Fprintln(c.out, "cancelled")
			return nil
		}
		return err
	}
	return nil
}

func (c *console) report(ctx context.Context, kind string, args []string) error {
	downloader := report.NewDownloader(c.client, c.downloads, c.logger)

	switch kind {
	case "attendance":
		if len(args) < 2 {
			return fmt.Errorf("report attendance requires <year> <month>")
		}
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}
		monthNum, err := strconv.Atoi(args[1])
		if err != nil || monthNum < 1 || monthNum > 12 {
			return fmt.Errorf("invalid month %q", args[1])
		}
		format := report.FormatCSV
		if len(args) > 2 {
			format = report.Format(args[2])
		}
		lookups := resources.NewLookups(c.client, c.logger)
		generator := report.NewMonthlyGenerator(lookups, nil, c.downloads, c.logger)
		path, err := generator.Generate(ctx, year, time.Month(monthNum), format)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "saved %s\n", path)
		return nil
	case "result-sheet":
		values, err := parsePairs(args)
		if err != nil {
			return err
		}
		path, err := downloader.ResultSheet(ctx, report.SheetFilters{
			ClassID:     values["classId"],
			SectionID:   values["sectionId"],
			ExamID:      values["examId"],
			Session:     values["session"],
			Order:       values["order"],
			Orientation: export.Orientation(values["orientation"]),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "saved %s\n", path)
		return nil
	case "income-expense":
		values, err := parsePairs(args)
		if err != nil {
			return err
		}
		path, err := downloader.IncomeExpense(ctx, values["from"], values["to"], report.Format(values["format"]))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "saved %s\n", path)
		return nil
	case "admit-cards":
		values, err := parsePairs(args)
		if err != nil {
			return err
		}
		req := report.AdmitCardRequest{
			ExamID:    values["examId"],
			ClassID:   values["classId"],
			SectionID: values["sectionId"],
		}
		if rolls := values["rolls"]; rolls != "" {
			req.Rolls = strings.Split(rolls, ",")
		}
		path, err := downloader.AdmitCards(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "saved %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown report kind %q", kind)
	}
}

func (c *console) fees(ctx context.Context, sub string, args []string) error {
	fees := resources.NewFeeReports(c.client, c.logger)

	switch sub {
	case "collected":
		if len(args) < 1 {
			return fmt.Errorf("fees collected requires a year")
		}
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}
		months, err := fees.CollectedByYear(ctx, year)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MONTH\tAMOUNT")
		for _, m := range months {
			fmt.Fprintf(w, "%s\t%.2f\n", m.Month, m.Amount)
		}
		return w.Flush()
	case "due":
		values, err := parsePairs(args)
		if err != nil {
			return err
		}
		records, err := fees.DueFeeSearch(ctx, values["classId"], values["section"])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STUDENT\tCLASS\tPHONE\tDUE")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", r.Name, r.ClassName, r.Phone, r.Amount)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown fees sub-command %q", sub)
	}
}

// lookups prints a reference collection. Most of these degrade silently, so
// an unreachable backend renders as an empty table rather than an error.
func (c *console) lookups(ctx context.Context, name string) error {
	l := resources.NewLookups(c.client, c.logger)

	var options []models.Option
	switch name {
	case "sessions":
		options = l.Sessions(ctx)
	case "classes":
		options = l.Classes(ctx)
	case "sections":
		options = l.Sections(ctx)
	case "batches":
		options = l.Batches(ctx)
	case "branches":
		options = l.Branches(ctx)
	case "exam-categories":
		options = l.ExamCategories(ctx)
	case "exam-halls":
		options = l.ExamHalls(ctx)
	case "bank-accounts":
		options = l.BankAccounts(ctx)
	case "students":
		options = l.Students(ctx)
	case "teachers":
		teachers, err := l.Teachers(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESIGNATION\tPHONE")
		for _, t := range teachers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Designation, t.Phone)
		}
		return w.Flush()
	case "exam-timetable":
		slots := l.ExamTimetable(ctx)
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EXAM\tSUBJECT\tCLASS\tDATE\tSTART\tEND")
		for _, s := range slots {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ExamName, s.Subject, s.ClassName, s.Date, s.StartTime, s.EndTime)
		}
		return w.Flush()
	case "facebook-page":
		page := l.FacebookPage(ctx)
		if page == nil {
			fmt.Fprintln(c.out, "(not configured)")
			return nil
		}
		fmt.Fprintf(c.out, "%s\t%s\n", page.Name, page.URL)
		return nil
	default:
		return fmt.Errorf("unknown lookup collection %q", name)
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, o := range options {
		fmt.Fprintf(w, "%s\t%s\n", o.ID, o.Name)
	}
	return w.Flush()
}

func (c *console) renderRecords(columns []string, records []models.Record) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	header := append([]string{"ID"}, columns...)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(header, "\t")))
	if len(records) == 0 {
		fmt.Fprintln(w, "(no records)")
	}
	for _, r := range records {
		row := make([]string, 0, len(columns)+1)
		row = append(row, r.ID)
		for _, col := range columns {
			row = append(row, r.Get(col))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func parsePairs(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		values[key] = value
	}
	return values, nil
}
