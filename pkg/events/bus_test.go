package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestMemoryBusPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, ChannelReportNew)
	if err != nil {
		t.Fatalf("订阅失败: %v", err)
	}

	payload := map[string]interface{}{"report_id": 1, "issue_type": "unreadable"}
	if err := bus.Publish(ctx, ChannelReportNew, payload); err != nil {
		t.Fatalf("发布失败: %v", err)
	}

	select {
	case data := <-ch:
		var got map[string]interface{}
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("解析事件失败: %v", err)
		}
		if got["issue_type"] != "unreadable" {
			t.Errorf("事件内容不匹配: %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("未收到事件")
	}
}

func TestMemoryBusPublishNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	// 无订阅者时发布为空操作
	if err := bus.Publish(context.Background(), "events:nobody", "hello"); err != nil {
		t.Fatalf("无订阅者发布不应报错: %v", err)
	}
}

func TestMemoryBusChannelIsolation(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, "events:a")
	if err != nil {
		t.Fatalf("订阅失败: %v", err)
	}

	if err := bus.Publish(ctx, "events:b", "other"); err != nil {
		t.Fatalf("发布失败: %v", err)
	}

	select {
	case data := <-ch:
		t.Errorf("不应收到其他频道的事件: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBusSubscribeCancel(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx, "events:c")
	if err != nil {
		t.Fatalf("订阅失败: %v", err)
	}

	cancel()

	// 取消后通道最终会关闭
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("取消后通道未关闭")
		}
	}
}

func TestDefaultBusFallback(t *testing.T) {
	SetDefault(nil)
	bus := Default()
	if bus == nil {
		t.Fatal("默认总线不应为nil")
	}
	if _, ok := bus.(*MemoryBus); !ok {
		t.Errorf("未设置时应退回内存总线")
	}
}
