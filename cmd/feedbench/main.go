package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/newsfeed/config"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/internal/service"
	"github.com/d60-Lab/newsfeed/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// 场景：N 个读者关注同一作者，作者发 POSTS 条帖子，随后读者翻页读取关注流
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	followRepo := repository.NewFollowRepository(db)
	userRepo := repository.NewUserRepository(db)
	followSvc := service.NewFollowService(followRepo, userRepo, nil)
	postSvc := service.NewPostService(db, followRepo)

	ctx := context.Background()

	N := envInt("N", 5000)
	CONC := envInt("CONC", 1)
	POSTS := envInt("POSTS", 200)
	LIMIT := envInt("LIMIT", 10)
	READS := envInt("READS", 1000)

	// seed users: author is celebrity; others follow author
	author := model.User{Username: "author_" + uuid.NewString()[:8], Password: "p"}
	mustDo(db.Create(&author).Error)
	users := make([]model.User, N)
	for i := 0; i < N; i++ {
		id := uuid.NewString()
		users[i] = model.User{Username: "u" + id[:8] + strconv.Itoa(i), Password: "p"}
	}
	mustDo(db.CreateInBatches(&users, 1000).Error)

	// follow path with CONC workers
	followRecs := make([]time.Duration, 0, N)
	recCh := make(chan time.Duration, N)
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)
	workers := CONC
	if workers > N {
		workers = N
	}
	done := make(chan struct{}, workers)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				_ = followSvc.Follow(ctx, users[i].ID, author.ID)
				recCh <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(recCh)
	for d := range recCh {
		followRecs = append(followRecs, d)
	}
	followDur := time.Since(t0)

	// publish
	pubRecs := make([]time.Duration, 0, POSTS)
	for i := 0; i < POSTS; i++ {
		st := time.Now()
		if _, err := postSvc.CreatePost(ctx, author.ID, fmt.Sprintf("hello %d", i)); err != nil {
			panic(err)
		}
		pubRecs = append(pubRecs, time.Since(st))
	}

	// feed reads, cycling pages
	pages := POSTS / LIMIT
	if pages == 0 {
		pages = 1
	}
	readRecs := make([]time.Duration, 0, READS)
	for i := 0; i < READS; i++ {
		reader := users[i%N].ID
		st := time.Now()
		f, err := postSvc.GetFeed(ctx, reader, i%pages+1, LIMIT)
		if err != nil {
			panic(err)
		}
		readRecs = append(readRecs, time.Since(st))
		if len(f.Posts) == 0 {
			fmt.Printf("warning: empty page %d for reader %d\n", f.Page, reader)
		}
	}

	fmt.Printf("N=%d, CONC=%d, POSTS=%d, LIMIT=%d, READS=%d\n", N, CONC, POSTS, LIMIT, READS)
	fmt.Printf("Follow latency total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, followDur/time.Duration(N), pct(followRecs, 0.50), pct(followRecs, 0.95), pct(followRecs, 0.99))
	fmt.Printf("Publish latency p50: %v, p95: %v, p99: %v\n", pct(pubRecs, 0.50), pct(pubRecs, 0.95), pct(pubRecs, 0.99))
	fmt.Printf("Feed page latency p50: %v, p95: %v, p99: %v\n", pct(readRecs, 0.50), pct(readRecs, 0.95), pct(readRecs, 0.99))
}
