package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"blog-api/pkg/config"
	"blog-api/pkg/database"
	"blog-api/pkg/logger"
	"blog-api/services/post/internal/model"
	"blog-api/services/post/internal/repo/persistent"
	"blog-api/services/post/internal/usecase"
)

var authors = []string{"alice", "bob", "charlie", "diana", "eve"}

var topics = []string{
	"getting started with go",
	"notes on postgres indexes",
	"why we moved to rabbitmq",
	"a week with gin",
	"caching posts in redis",
	"object storage on a budget",
}

func main() {
	count := flag.Int("count", 12, "number of posts to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	if err := db.AutoMigrate(&model.PostModel{}); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	postUseCase := usecase.NewPostUseCase(persistent.NewPostRepository(db), nil, nil, nil, log)
	if err := seedPosts(context.Background(), postUseCase, *count, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

// seedPosts creates n sample posts and marks every third one completed.
func seedPosts(ctx context.Context, uc usecase.PostUseCase, n int, log *logger.Logger) error {
	for i := 0; i < n; i++ {
		title, body, author := samplePost(i)

		post, err := uc.CreatePost(ctx, title, body, author, nil)
		if err != nil {
			return fmt.Errorf("failed to create post %d: %w", i+1, err)
		}

		if i%3 == 2 {
			if _, err := uc.TogglePostStatus(ctx, post.ID); err != nil {
				return fmt.Errorf("failed to complete post %s: %w", post.ID, err)
			}
		}
		log.Info("Created post: %s by %s", post.Title, post.Author)
	}
	return nil
}

func samplePost(i int) (title, body, author string) {
	topic := topics[i%len(topics)]
	title = fmt.Sprintf("%s (part %d)", topic, i/len(topics)+1)
	body = strings.ToLower(fmt.Sprintf("a short write-up about %s. entry number %d.", topic, i+1))
	author = authors[i%len(authors)]
	return title, body, author
}
