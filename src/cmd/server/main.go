package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/akamensky/argparse"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.com/pnathan/phfwd/src/lib/log"
	"gitlab.com/pnathan/phfwd/src/lib/phfwd"
	"gitlab.com/pnathan/phfwd/src/lib/phfwdapi"
)

var GLOBAL_FORWARD *phfwd.Guarded

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		log.Error("encoding failure", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(bytes)
}

func putRule(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)

	rule := phfwd.Rule{}
	if err := decoder.Decode(&rule); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't decode"))
		return
	}

	if err := GLOBAL_FORWARD.Add(rule.Prefix, rule.Target); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(err.Error()))
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func returnRules(w http.ResponseWriter, r *http.Request) {
	rs := phfwdapi.NewRuleSet(GLOBAL_FORWARD.Rules())
	etag := rs.ETag()
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, rs)
}

// loadRules replaces the whole trie; a rule set with any bad rule is
// refused and the current rules stay.
func loadRules(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)

	rs := phfwdapi.RuleSet{}
	if err := decoder.Decode(&rs); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't decode"))
		return
	}

	pf, err := rs.Build()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(err.Error()))
		return
	}
	GLOBAL_FORWARD.SwapIn(pf)
	log.Info("rule set replaced", zap.Int("rules", len(rs.Rules)))
	_, _ = w.Write([]byte("ok"))
}

func deleteRule(w http.ResponseWriter, r *http.Request) {
	GLOBAL_FORWARD.Remove(mux.Vars(r)["number"])
	_, _ = w.Write([]byte("ok"))
}

func forward(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, phfwdapi.NewNumberList(GLOBAL_FORWARD.Get(mux.Vars(r)["number"])))
}

func reverse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, phfwdapi.NewNumberList(GLOBAL_FORWARD.Reverse(mux.Vars(r)["number"])))
}

func consistentReverse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, phfwdapi.NewNumberList(GLOBAL_FORWARD.GetReverse(mux.Vars(r)["number"])))
}

func statistics(w http.ResponseWriter, r *http.Request) {
	rules, nodes := GLOBAL_FORWARD.Counts()
	writeJSON(w, &phfwdapi.Statistics{Rules: rules, Nodes: nodes})
}

func fastRules(filename string) error {
	log.Info("Rules file provided...reading", zap.String("filename", filename))
	rs, err := phfwdapi.ReadRuleSet(filename)
	if err != nil {
		return err
	}
	pf, err := rs.Build()
	if err != nil {
		return err
	}
	GLOBAL_FORWARD.SwapIn(pf)
	log.Info("rules loaded", zap.String("filename", filename), zap.Int("rules", len(rs.Rules)))
	return nil
}

//////////////////////////////////////////////////////////////
func init() {
	GLOBAL_FORWARD = phfwd.NewGuarded()
}

func Default(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ok")
}

func Wut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "your content is in another url")
}

func loggerHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		h.ServeHTTP(w, r)
		httpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", id))
	})
}

func newRouter() http.Handler {
	r := mux.NewRouter()
	errorChain := alice.New(loggerHandler)
	r.HandleFunc("/healthz", Default)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/rules", returnRules).Methods("GET")
	r.HandleFunc("/api/rules", putRule).Methods("PUT")
	r.HandleFunc("/api/rules/load", loadRules).Methods("PUT")
	r.HandleFunc("/api/rules/{number}", deleteRule).Methods("DELETE")

	r.HandleFunc("/api/forward/{number}", forward).Methods("GET")
	r.HandleFunc("/api/reverse/{number}", reverse).Methods("GET")
	r.HandleFunc("/api/reverse/{number}/consistent", consistentReverse).Methods("GET")

	r.HandleFunc("/api/statistics", statistics).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(Wut)
	return errorChain.Then(r)
}

//////////////////////////////////////////////////////////////
func main() {
	parser := argparse.NewParser("phfwd-server", "serves phone number forwarding rules")

	host := parser.String("i", "ip", &argparse.Options{Required: false, Help: "ip to bind to", Default: "0.0.0.0"})
	port := parser.String("p", "port", &argparse.Options{Required: false, Help: "port to bind to", Default: "1337"})
	rules := parser.String("r", "rules", &argparse.Options{Required: false, Help: "JSON file of rules loaded at startup"})
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "log debug output"})
	// Parse input
	err := parser.Parse(os.Args)
	if err != nil {
		// In case of error print error and print usage
		// This can also be done by passing -h or --help flags
		fmt.Print(parser.Usage(err))
		return
	}
	if *verbose {
		if err := log.Verbose(); err != nil {
			log.Fatal("unable to build development logger", zap.Error(err))
		}
	}
	defer log.Sync()

	if *rules != "" {
		if err := fastRules(*rules); err != nil {
			log.Fatal("unable to load rules", zap.String("filename", *rules), zap.Error(err))
		}
	}

	log.Printf("Good morning. I am listening on %s:%s", *host, *port)

	srv := &http.Server{
		Handler:      newRouter(),
		Addr:         fmt.Sprintf("%s:%s", *host, *port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Fatal("server failure", zap.Error(srv.ListenAndServe()))
}
